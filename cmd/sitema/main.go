package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Arturolibup/sitemainventarios-sub002/internal/analytics"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/app"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/fleet"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/inventory"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/masterdata"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/observability"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/cache"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/platform/db"
	"github.com/Arturolibup/sitemainventarios-sub002/internal/requisition"
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, analytics cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)
	approvals := shared.NewApprovalRecorder(pool, logger)
	idempotency := shared.NewIdempotencyStore(pool)

	inventoryService := inventory.NewService(inventory.NewRepository(pool), auditLogger, idempotency, inventory.ServiceConfig{
		AllowNegativeStock: cfg.AllowNegativeStock,
	})
	inventoryHandler := inventory.NewHandler(logger, inventoryService, metrics)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	requisitionService := requisition.NewService(
		requisition.NewRepository(pool),
		inventoryService,
		approvals,
		auditLogger,
		idempotency,
		jobsClient,
		logger,
		requisition.ServiceConfig{Location: cfg.Location()},
	)
	requisitionHandler := requisition.NewHandler(logger, requisitionService)

	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("analytics invalidation listener", slog.Any("error", err))
	}
	analyticsService := analytics.NewService(analytics.NewRepository(pool), analyticsCache)
	analyticsHandler := analytics.NewHandler(logger, analyticsService)

	fleetService := fleet.NewService(fleet.NewRepository(pool), auditLogger)
	fleetHandler := fleet.NewHandler(logger, fleetService)

	masterdataHandler := masterdata.NewHandler(pool, logger)

	jobsInspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	jobsHandler := jobs.NewHandler(jobsInspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		RequisitionHandler: requisitionHandler,
		InventoryHandler:   inventoryHandler,
		MasterDataHandler:  masterdataHandler,
		FleetHandler:       fleetHandler,
		AnalyticsHandler:   analyticsHandler,
		JobsHandler:        jobsHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
