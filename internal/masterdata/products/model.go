package products

import "time"

// Product is a catalog item that can appear on requisition calls and
// inventory documents.
type Product struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	UnitID     int64     `json:"unit_id"`
	CategoryID *int64    `json:"category_id,omitempty"`
	MinStock   float64   `json:"min_stock"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Input carries the writable fields of a product.
type Input struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	UnitID     int64   `json:"unit_id"`
	CategoryID *int64  `json:"category_id"`
	MinStock   float64 `json:"min_stock"`
	IsActive   bool    `json:"is_active"`
}
