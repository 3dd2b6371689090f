package fleet

import "time"

type vehicleRequest struct {
	Plate     string `json:"plate" validate:"required"`
	Brand     string `json:"brand" validate:"required"`
	Model     string `json:"model"`
	Year      int    `json:"year" validate:"required,gte=1950"`
	AreaID    int64  `json:"area_id" validate:"required,gt=0"`
	SubareaID int64  `json:"subarea_id" validate:"required,gt=0"`
	Status    string `json:"status" validate:"omitempty,oneof=ACTIVE MAINTENANCE RETIRED"`
	Notes     string `json:"notes"`
}

type assignRequest struct {
	AreaID    int64 `json:"area_id" validate:"required,gt=0"`
	SubareaID int64 `json:"subarea_id" validate:"required,gt=0"`
}

type vehicleResponse struct {
	ID        int64     `json:"id"`
	Plate     string    `json:"plate"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	AreaID    int64     `json:"area_id"`
	SubareaID int64     `json:"subarea_id"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newVehicleResponse(v Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:        v.ID,
		Plate:     v.Plate,
		Brand:     v.Brand,
		Model:     v.Model,
		Year:      v.Year,
		AreaID:    v.AreaID,
		SubareaID: v.SubareaID,
		Status:    string(v.Status),
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
