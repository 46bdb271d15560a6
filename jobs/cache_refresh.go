package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// BackendRefresher drops the inventory backend's product caches.
type BackendRefresher interface {
	RefreshCache(ctx context.Context) error
}

// ChartInvalidator bumps the chart snapshot version.
type ChartInvalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// CacheRefreshJob refreshes backend caches and invalidates chart snapshots.
type CacheRefreshJob struct {
	Backend BackendRefresher
	Charts  ChartInvalidator
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewCacheRefreshJob wires dependencies for the refresh handler.
func NewCacheRefreshJob(backend BackendRefresher, charts ChartInvalidator, logger *slog.Logger, metrics *jobmetrics.Metrics) *CacheRefreshJob {
	return &CacheRefreshJob{
		Backend: backend,
		Charts:  charts,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes cache refresh tasks.
func (j *CacheRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("cache refresh: handler not configured")
	}
	var payload CacheRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	return j.Run(ctx, payload)
}

// Run performs one refresh.
func (j *CacheRefreshJob) Run(ctx context.Context, payload CacheRefreshPayload) (resultErr error) {
	tracker := j.metrics().Track(TaskCacheRefresh)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	started := j.now()
	logger.Info("starting cache refresh")

	if j.Backend != nil && !payload.SkipBackend {
		if err := j.Backend.RefreshCache(ctx); err != nil {
			logger.Error("refresh backend cache", slog.Any("error", err))
			return err
		}
	}
	var version int64
	if j.Charts != nil {
		v, err := j.Charts.Invalidate(ctx)
		if err != nil {
			logger.Error("invalidate chart cache", slog.Any("error", err))
			return err
		}
		version = v
	}

	logger.Info("completed cache refresh", slog.Int64("chart_version", version), slog.Duration("duration", j.now().Sub(started)))
	return nil
}

func (j *CacheRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCacheRefresh))
	}
	return slog.Default().With(slog.String("job", TaskCacheRefresh))
}

func (j *CacheRefreshJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *CacheRefreshJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
