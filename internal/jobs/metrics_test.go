package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	require.NoError(t, m.Track("inventory:cache_refresh").End(nil))
	boom := errors.New("boom")
	require.ErrorIs(t, m.Track("inventory:cache_refresh").End(boom), boom)

	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("inventory:cache_refresh", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("inventory:cache_refresh", "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("inventory:cache_refresh")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.SetLowStock("LOW_STOCK", 3)
	require.NoError(t, m.Track("x").End(nil))
}

func TestSetLowStockClampsNegative(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.SetLowStock("OUT_OF_STOCK", -2)
	require.Equal(t, 0.0, testutil.ToFloat64(m.lowStock.WithLabelValues("OUT_OF_STOCK")))
	m.SetLowStock("OUT_OF_STOCK", 4)
	require.Equal(t, 4.0, testutil.ToFloat64(m.lowStock.WithLabelValues("OUT_OF_STOCK")))
}
