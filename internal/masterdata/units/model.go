package units

import "time"

// Unit is a measurement unit used by products and requisition items.
type Unit struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the writable fields of a unit.
type Input struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
