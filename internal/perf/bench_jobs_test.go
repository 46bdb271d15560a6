package perf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/stockdesk/stockdesk/internal/inventory"
	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/jobs"
)

type flakyBackend struct {
	calls     int
	failEvery int
}

func (b *flakyBackend) RefreshCache(context.Context) error {
	b.calls++
	if b.failEvery > 0 && b.calls%b.failEvery == 0 {
		return errors.New("timeout")
	}
	return nil
}

type countingCharts struct{ version int64 }

func (c *countingCharts) Invalidate(context.Context) (int64, error) {
	c.version++
	return c.version, nil
}

type lowStockSource struct{ products []inventory.Product }

func (s lowStockSource) LowStock(_ context.Context, limit int) ([]inventory.Product, error) {
	if limit < len(s.products) {
		return s.products[:limit], nil
	}
	return s.products, nil
}

func TestJobThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := &flakyBackend{failEvery: 25}
	charts := &countingCharts{}
	refresh := jobs.NewCacheRefreshJob(backend, charts, logger, metrics)
	for i := 0; i < 100; i++ {
		_ = refresh.Run(ctx, jobs.CacheRefreshPayload{Reason: "perf"})
	}

	products := make([]inventory.Product, 0, 200)
	for i := 0; i < 200; i++ {
		products = append(products, inventory.Product{ID: int64(i + 1), StockQuantity: i % 4, MinStockLevel: 3})
	}
	scan := jobs.NewLowStockScanJob(lowStockSource{products: products}, logger, metrics)
	for i := 0; i < 20; i++ {
		if _, err := scan.Scan(ctx, 200); err != nil {
			t.Fatalf("unexpected scan error: %v", err)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	success := metricValue(t, families, "stockdesk_jobs_total", map[string]string{"job": jobs.TaskCacheRefresh, "status": "success"})
	failure := metricValue(t, families, "stockdesk_jobs_total", map[string]string{"job": jobs.TaskCacheRefresh, "status": "failure"})
	if success+failure != 100 {
		t.Fatalf("expected 100 refresh runs, got %f", success+failure)
	}
	if ratio := success / (success + failure); ratio < 0.9 {
		t.Fatalf("refresh success ratio too low: %f", ratio)
	}
	if charts.version != int64(success) {
		t.Fatalf("charts invalidated %d times, want %d", charts.version, int64(success))
	}

	if mean := histogramMean(t, families, "stockdesk_job_duration_seconds", map[string]string{"job": jobs.TaskLowStockScan}); mean > 0.5 {
		t.Fatalf("low stock scan duration above budget: %f", mean)
	}
	if out := metricValue(t, families, "stockdesk_low_stock_products", map[string]string{"status": string(inventory.StatusOutOfStock)}); out != 50 {
		t.Fatalf("expected 50 out-of-stock products, got %f", out)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				if fam.GetType() == dto.MetricType_COUNTER {
					return metric.GetCounter().GetValue()
				}
				if fam.GetType() == dto.MetricType_GAUGE {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	for _, lp := range metric.GetLabel() {
		if val, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != val {
				return false
			}
		}
	}
	for key := range labels {
		found := false
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == key {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
