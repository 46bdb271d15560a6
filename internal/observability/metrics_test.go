package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
)

func scrape(t *testing.T, metrics *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsHandlerExposesJobMetrics(t *testing.T) {
	metrics := NewMetrics()
	jobs := jobmetrics.NewMetrics(metrics.Registerer())
	_ = jobs.Track("inventory:low_stock_scan").End(nil)

	body := scrape(t, metrics)
	if !strings.Contains(body, "stockdesk_jobs_total") {
		t.Fatalf("expected body to contain stockdesk_jobs_total, got: %s", body)
	}
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rr.Code)
	}

	metricsBody := scrape(t, metrics)
	if !strings.Contains(metricsBody, "http_requests_total{code=\"418\",route=\"/test\"} 1") {
		t.Fatalf("expected metrics to record request, got: %s", metricsBody)
	}
	if !strings.Contains(metricsBody, "http_request_duration_seconds_bucket{route=\"/test\"") {
		t.Fatalf("expected duration histogram to be present, got: %s", metricsBody)
	}
}

func TestObserveBackendCallClassifiesOutcome(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveBackendCall("GET /products", 200, 20*time.Millisecond)
	metrics.ObserveBackendCall("GET /products", 503, time.Second)
	metrics.ObserveBackendCall("DELETE /products/{id}", 404, time.Millisecond)
	metrics.ObserveBackendCall("GET /products/stats", 0, 5*time.Second)

	body := scrape(t, metrics)
	for _, want := range []string{
		`stockdesk_backend_requests_total{outcome="ok",route="GET /products"} 1`,
		`stockdesk_backend_requests_total{outcome="server_error",route="GET /products"} 1`,
		`stockdesk_backend_requests_total{outcome="client_error",route="DELETE /products/{id}"} 1`,
		`stockdesk_backend_requests_total{outcome="transport_error",route="GET /products/stats"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics, got: %s", want, body)
		}
	}
}

func TestWatchChartsExportsGauge(t *testing.T) {
	metrics := NewMetrics()
	handles := 4
	metrics.WatchCharts(func() int { return handles })

	if body := scrape(t, metrics); !strings.Contains(body, "stockdesk_chart_handles 4") {
		t.Fatalf("expected chart gauge, got: %s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveBackendCall("GET /x", 200, time.Millisecond)
	metrics.WatchCharts(func() int { return 1 })

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
