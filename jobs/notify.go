package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/Arturolibup/sitemainventarios-sub002/internal/jobs"
)

// NotifyJob delivers approval notices. Delivery is log based until a mail
// transport is configured.
type NotifyJob struct {
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewNotifyJob wires dependencies for the notify handler.
func NewNotifyJob(logger *slog.Logger, metrics *jobmetrics.Metrics) *NotifyJob {
	return &NotifyJob{Logger: logger, Metrics: metrics}
}

// Handle processes notify tasks.
func (j *NotifyJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Logger == nil {
		return errors.New("notify: handler not configured")
	}
	var payload NotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskNotifySend)
	j.Logger.Info("requisition approval notice",
		slog.Int64("requisition_id", payload.RequisitionID),
		slog.Int64("call_id", payload.CallID),
		slog.Int64("requested_by", payload.RequestedBy),
		slog.Int64("approved_by", payload.ApprovedBy),
		slog.Int64("exit_id", payload.ExitID),
		slog.Time("approved_at", payload.ApprovedAt))
	return tracker.End(nil)
}
