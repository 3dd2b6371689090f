package areas

import "time"

// Area is an organizational unit that owns requisitions.
type Area struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subarea belongs to exactly one area.
type Subarea struct {
	ID        int64     `json:"id"`
	AreaID    int64     `json:"area_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AreaInput carries the writable fields of an area.
type AreaInput struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// SubareaInput carries the writable fields of a subarea.
type SubareaInput struct {
	AreaID   int64  `json:"area_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
