package requisition

import (
	"errors"
	"time"
)

// Status enumerates the requisition lifecycle.
type Status string

const (
	// StatusDraft marks a requisition being edited by its owner.
	StatusDraft Status = "DRAFT"
	// StatusSent marks a requisition submitted for approval.
	StatusSent Status = "SENT"
	// StatusApproved is terminal.
	StatusApproved Status = "APPROVED"
)

// MaxCallSpan limits how long a capture window may stay open.
const MaxCallSpan = 10 * 24 * time.Hour

// Call is a time-boxed capture window with an enabled product catalog.
type Call struct {
	ID        int64
	Year      int
	Month     int
	Title     string
	OpenAt    time.Time
	CloseAt   time.Time
	IsActive  bool
	CreatedBy int64
	CreatedAt time.Time
	DeletedAt time.Time
}

// CallProduct marks a product as requestable within a call.
type CallProduct struct {
	CallID    int64
	ProductID int64
	IsEnabled bool
}

// Requisition is one unit's request against a call.
type Requisition struct {
	ID          int64
	CallID      int64
	AreaID      int64
	SubareaID   int64
	RequestedBy int64
	Status      Status
	RequestedAt time.Time
	ApprovedBy  int64
	ApprovedAt  time.Time
	ExitID      int64
	CreatedAt   time.Time
}

// Item is one product line with requested and approved quantities.
type Item struct {
	ID            int64
	RequisitionID int64
	ProductID     int64
	UnitID        int64
	RequestedQty  float64
	ApprovedQty   float64
	Notes         string
}

var (
	// ErrNotFound indicates a missing record.
	ErrNotFound = errors.New("requisition: not found")
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("requisition: invalid input")
	// ErrInvalidState occurs when an action violates the status workflow.
	ErrInvalidState = errors.New("requisition: invalid state transition")
	// ErrForbidden occurs when the actor does not own the requisition.
	ErrForbidden = errors.New("requisition: forbidden")
	// ErrWindowClosed occurs when acting outside the call window.
	ErrWindowClosed = errors.New("requisition: call window closed")
	// ErrCallInactive occurs when the call has been deactivated.
	ErrCallInactive = errors.New("requisition: call is not active")
)
