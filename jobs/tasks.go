package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskCallSweep deactivates requisition calls whose close day has passed.
	TaskCallSweep = "requisition:call_sweep"
	// TaskRetentionCleanup prunes aged idempotency keys and audit rows.
	TaskRetentionCleanup = "maintenance:retention"
	// TaskNotifySend delivers a requisition approval notice.
	TaskNotifySend = "notify:send"
)

// CallSweepPayload carries scheduling metadata for the sweep run.
type CallSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewCallSweepTask constructs an Asynq task for the call sweep.
func NewCallSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(CallSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCallSweep, body, asynq.Queue(QueueDefault)), nil
}

// RetentionPayload sets how many days of each record class to keep.
type RetentionPayload struct {
	AuditDays       int `json:"audit_days"`
	IdempotencyDays int `json:"idempotency_days"`
}

// NewRetentionTask constructs an Asynq task for the retention cleanup.
func NewRetentionTask(payload RetentionPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRetentionCleanup, body, asynq.Queue(QueueDefault)), nil
}

// NotifyPayload describes an approval notice to deliver.
type NotifyPayload struct {
	RequisitionID int64     `json:"requisition_id"`
	CallID        int64     `json:"call_id"`
	AreaID        int64     `json:"area_id"`
	SubareaID     int64     `json:"subarea_id"`
	RequestedBy   int64     `json:"requested_by"`
	ApprovedBy    int64     `json:"approved_by"`
	ExitID        int64     `json:"exit_id"`
	ApprovedAt    time.Time `json:"approved_at"`
}

// NewNotifyTask constructs an Asynq task for an approval notice.
func NewNotifyTask(payload NotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifySend, body, asynq.Queue(QueueDefault)), nil
}
