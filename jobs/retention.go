package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/Arturolibup/sitemainventarios-sub002/internal/jobs"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
)

// RetentionJob prunes idempotency keys and audit rows past their retention
// window.
type RetentionJob struct {
	Pool        *pgxpool.Pool
	Idempotency *shared.IdempotencyStore
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
}

// NewRetentionJob wires dependencies for the retention handler.
func NewRetentionJob(pool *pgxpool.Pool, idem *shared.IdempotencyStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *RetentionJob {
	return &RetentionJob{Pool: pool, Idempotency: idem, Logger: logger, Metrics: metrics}
}

// Handle processes retention cleanup tasks.
func (j *RetentionJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("retention: handler not configured")
	}
	var payload RetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.AuditDays <= 0 {
		payload.AuditDays = 365
	}
	if payload.IdempotencyDays <= 0 {
		payload.IdempotencyDays = 30
	}

	tracker := j.Metrics.Track(TaskRetentionCleanup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if j.Idempotency != nil {
		if err := j.Idempotency.Cleanup(ctx, time.Duration(payload.IdempotencyDays)*24*time.Hour); err != nil {
			resultErr = err
			return err
		}
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -payload.AuditDays)
	tag, err := j.Pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		resultErr = err
		return err
	}

	j.Logger.Info("retention cleanup done",
		slog.Int64("audit_rows_removed", tag.RowsAffected()),
		slog.Int("audit_days", payload.AuditDays),
		slog.Int("idempotency_days", payload.IdempotencyDays))
	return nil
}
