package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/analytics"
	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/app"
	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/platform/cache"
	"github.com/stockdesk/stockdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	backend := apiclient.New(cfg.InventoryAPIURL,
		apiclient.WithTimeout(cfg.InventoryAPITimeout),
		apiclient.WithLogger(logger),
	)
	catalog, err := analytics.LoadCatalog()
	if err != nil {
		logger.Error("load chart datasets", slog.Any("error", err))
		os.Exit(1)
	}
	chartService := analytics.NewService(catalog, analytics.NewCache(redisClient, cfg.ChartCacheTTL), logger)

	metrics := jobmetrics.NewMetrics(nil)
	refreshJob := jobs.NewCacheRefreshJob(backend, chartService, logger, metrics)
	scanJob := jobs.NewLowStockScanJob(backend, logger, metrics)

	refreshTask, err := jobs.NewCacheRefreshTask(jobs.CacheRefreshPayload{Reason: "cron"})
	if err != nil {
		logger.Error("build refresh task", slog.Any("error", err))
		os.Exit(1)
	}
	scanTask, err := jobs.NewLowStockScanTask(jobs.LowStockScanPayload{Limit: cfg.LowStockLimit})
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   cfg.Redis().AsynqOptions(),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCacheRefresh, Handler: refreshJob.Handle},
			{Type: jobs.TaskLowStockScan, Handler: scanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.CacheRefreshCron, Task: refreshTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.LowStockScanCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("refresh_cron", cfg.CacheRefreshCron), slog.String("scan_cron", cfg.LowStockScanCron))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
