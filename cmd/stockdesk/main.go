package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/analytics"
	analytichttp "github.com/stockdesk/stockdesk/internal/analytics/http"
	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/app"
	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/debounce"
	"github.com/stockdesk/stockdesk/internal/observability"
	"github.com/stockdesk/stockdesk/internal/platform/cache"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
	"github.com/stockdesk/stockdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	sessionManager := shared.NewSessionManager(redisClient, "stockdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	backend := apiclient.New(cfg.InventoryAPIURL,
		apiclient.WithTimeout(cfg.InventoryAPITimeout),
		apiclient.WithLogger(logger),
		apiclient.WithObserver(metrics),
	)

	catalog, err := analytics.LoadCatalog()
	if err != nil {
		logger.Error("load chart datasets", slog.Any("error", err))
		os.Exit(1)
	}
	chartCache := analytics.NewCache(redisClient, cfg.ChartCacheTTL)
	chartService := analytics.NewService(catalog, chartCache, logger)
	chartRegistry := analytics.NewRegistry(catalog).WithIdle(cfg.SessionTTL)
	metrics.WatchCharts(chartRegistry.Count)
	if err := chartCache.ListenForInvalidation(ctx, func(ver int64) {
		logger.Info("chart cache invalidated", slog.Int64("version", ver))
	}); err != nil {
		logger.Warn("subscribe chart invalidation", slog.Any("error", err))
	}

	redisOpts := cfg.Redis().AsynqOptions()
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	controller := console.NewController(logger, backend, chartRegistry, debounce.New(cfg.SearchDebounce),
		console.WithMountDelay(cfg.AnalyticsMountDelay),
		console.WithRefresher(jobClient),
		console.WithSessionTTL(cfg.SessionTTL),
	)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		ConsoleHandler:   console.NewHandler(logger, controller, templates, csrfManager),
		AnalyticsHandler: analytichttp.NewHandler(logger, chartService, chartRegistry, templates),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("inventory_api", backend.BaseURL()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
