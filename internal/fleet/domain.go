package fleet

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("fleet: vehicle not found")
	ErrDuplicatePlate = errors.New("fleet: plate already registered")
	ErrValidation     = errors.New("fleet: validation failed")
)

// VehicleStatus tracks the operational state of a vehicle.
type VehicleStatus string

const (
	StatusActive      VehicleStatus = "ACTIVE"
	StatusMaintenance VehicleStatus = "MAINTENANCE"
	StatusRetired     VehicleStatus = "RETIRED"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusRetired:
		return true
	}
	return false
}

// Vehicle is a fleet asset assigned to an area and subarea.
type Vehicle struct {
	ID        int64
	Plate     string
	Brand     string
	Model     string
	Year      int
	AreaID    int64
	SubareaID int64
	Status    VehicleStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows vehicle listings.
type Filter struct {
	AreaID    int64
	SubareaID int64
	Status    VehicleStatus
	Search    string
	Page      int
	PerPage   int
}
