package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/inventory"
	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
)

// DefaultLowStockScanLimit bounds a scan without an explicit limit.
const DefaultLowStockScanLimit = 50

// LowStockSource lists products under their minimum level.
type LowStockSource interface {
	LowStock(ctx context.Context, limit int) ([]inventory.Product, error)
}

// LowStockReport summarises one scan.
type LowStockReport struct {
	Low        []inventory.Product
	OutOfStock []inventory.Product
}

// LowStockScanJob logs and exports products that need restocking.
type LowStockScanJob struct {
	Source  LowStockSource
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	timeout time.Duration
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(source LowStockSource, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Source: source, Logger: logger, Metrics: metrics, timeout: 20 * time.Second}
}

// Handle processes low-stock scan tasks.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	_, err := j.Scan(ctx, payload.Limit)
	return err
}

// Scan fetches low-stock products and splits them by effective status.
func (j *LowStockScanJob) Scan(ctx context.Context, limit int) (report LowStockReport, resultErr error) {
	if j.Source == nil {
		return report, errors.New("low stock scan: source not configured")
	}
	if limit <= 0 {
		limit = DefaultLowStockScanLimit
	}
	tracker := j.metrics().Track(TaskLowStockScan)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	scanCtx := ctx
	if j.timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	logger := j.logger().With(slog.Int("limit", limit))
	products, err := j.Source.LowStock(scanCtx, limit)
	if err != nil {
		logger.Error("load low stock products", slog.Any("error", err))
		return report, err
	}
	for _, p := range products {
		switch p.EffectiveStatus() {
		case inventory.StatusOutOfStock:
			report.OutOfStock = append(report.OutOfStock, p)
		case inventory.StatusLowStock:
			report.Low = append(report.Low, p)
		}
	}
	for _, p := range report.OutOfStock {
		logger.Warn("product out of stock", slog.Int64("product_id", p.ID), slog.String("sku", p.SKU))
	}
	j.metrics().SetLowStock(string(inventory.StatusLowStock), len(report.Low))
	j.metrics().SetLowStock(string(inventory.StatusOutOfStock), len(report.OutOfStock))
	logger.Info("completed low stock scan", slog.Int("low", len(report.Low)), slog.Int("out_of_stock", len(report.OutOfStock)))
	return report, nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskLowStockScan))
}

func (j *LowStockScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
