package requisition

import (
	"context"
	"time"
)

// ApprovedEvent captures the details emitted when a requisition is approved.
type ApprovedEvent struct {
	RequisitionID int64
	CallID        int64
	AreaID        int64
	SubareaID     int64
	RequestedBy   int64
	ApprovedBy    int64
	ExitID        int64
	ApprovedAt    time.Time
}

// NotifyPort delivers lifecycle notifications, typically by enqueueing a
// background task.
type NotifyPort interface {
	EnqueueApprovalNotice(ctx context.Context, evt ApprovedEvent) error
}
