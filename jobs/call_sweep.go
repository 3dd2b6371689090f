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
)

// CallSweepJob deactivates requisition calls once their close day is over.
type CallSweepJob struct {
	Pool     *pgxpool.Pool
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	Location *time.Location
	clock    func() time.Time
}

// NewCallSweepJob wires dependencies for the sweep handler.
func NewCallSweepJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics, loc *time.Location) *CallSweepJob {
	if loc == nil {
		loc = time.UTC
	}
	return &CallSweepJob{
		Pool:     pool,
		Logger:   logger,
		Metrics:  metrics,
		Location: loc,
		clock:    func() time.Time { return time.Now() },
	}
}

// Handle processes call sweep tasks. A call stays open through the whole of
// its close day, so the cutoff is midnight of the current day in the
// configured timezone.
func (j *CallSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("call sweep: handler not configured")
	}
	var payload CallSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskCallSweep)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	now := j.clock().In(j.Location)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.Location)

	tag, err := j.Pool.Exec(ctx, `
		UPDATE requisition_calls
		SET is_active = false, updated_at = now()
		WHERE is_active = true AND deleted_at IS NULL AND close_at < $1`, cutoff)
	if err != nil {
		resultErr = err
		return err
	}

	swept := tag.RowsAffected()
	j.Metrics.AddSweptCalls(swept)
	if swept > 0 {
		j.Logger.Info("requisition calls swept",
			slog.Int64("count", swept),
			slog.Time("cutoff", cutoff))
	}
	return nil
}
