package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/app"
	jobmetrics "github.com/Arturolibup/sitemainventarios-sub002/internal/jobs"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/db"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/shared"
	"github.com/Arturolibup/sitemainventarios-sub002/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{
		MaxConns:        cfg.PGMaxConns,
		MaxConnLifetime: cfg.PGConnLifetime,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)
	idempotency := shared.NewIdempotencyStore(pool)
	loc := cfg.Location()

	sweepJob := jobs.NewCallSweepJob(pool, logger, metrics, loc)
	retentionJob := jobs.NewRetentionJob(pool, idempotency, logger, metrics)
	notifyJob := jobs.NewNotifyJob(logger, metrics)

	sweepTask, err := jobs.NewCallSweepTask(time.Now().In(loc))
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	retentionTask, err := jobs.NewRetentionTask(jobs.RetentionPayload{
		AuditDays:       cfg.RetentionAuditDays,
		IdempotencyDays: cfg.RetentionIdempotencyDays,
	})
	if err != nil {
		logger.Error("build retention task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Location:  loc,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCallSweep, Handler: sweepJob.Handle},
			{Type: jobs.TaskRetentionCleanup, Handler: retentionJob.Handle},
			{Type: jobs.TaskNotifySend, Handler: notifyJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "5 0 * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 2 * * *", Task: retentionTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
