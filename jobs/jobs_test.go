package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/inventory"
	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
)

type fakeBackend struct {
	calls int
	err   error
}

func (f *fakeBackend) RefreshCache(context.Context) error {
	f.calls++
	return f.err
}

type fakeCharts struct {
	version int64
	err     error
}

func (f *fakeCharts) Invalidate(context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.version++
	return f.version, nil
}

type fakeLowStock struct {
	limit    int
	products []inventory.Product
	err      error
}

func (f *fakeLowStock) LowStock(_ context.Context, limit int) ([]inventory.Product, error) {
	f.limit = limit
	return f.products, f.err
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type(), Queue: QueueDefault}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return f.info, f.err
}

func testMetrics() *jobmetrics.Metrics {
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

func TestCacheRefreshRefreshesBackendAndCharts(t *testing.T) {
	backend := &fakeBackend{}
	charts := &fakeCharts{}
	job := NewCacheRefreshJob(backend, charts, nil, testMetrics())

	task, err := NewCacheRefreshTask(CacheRefreshPayload{Reason: "cron"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, int64(1), charts.version)
}

func TestCacheRefreshSkipBackend(t *testing.T) {
	backend := &fakeBackend{}
	charts := &fakeCharts{}
	job := NewCacheRefreshJob(backend, charts, nil, testMetrics())

	require.NoError(t, job.Run(context.Background(), CacheRefreshPayload{SkipBackend: true}))
	assert.Zero(t, backend.calls)
	assert.Equal(t, int64(1), charts.version)
}

func TestCacheRefreshStopsOnBackendError(t *testing.T) {
	boom := errors.New("backend down")
	charts := &fakeCharts{}
	job := NewCacheRefreshJob(&fakeBackend{err: boom}, charts, nil, testMetrics())

	err := job.Run(context.Background(), CacheRefreshPayload{Reason: "operator"})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, charts.version)
}

func TestCacheRefreshRejectsMalformedPayload(t *testing.T) {
	job := NewCacheRefreshJob(&fakeBackend{}, nil, nil, testMetrics())
	err := job.Handle(context.Background(), asynq.NewTask(TaskCacheRefresh, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestNewCacheRefreshTaskDefaultsReason(t *testing.T) {
	task, err := NewCacheRefreshTask(CacheRefreshPayload{})
	require.NoError(t, err)
	var payload CacheRefreshPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "manual", payload.Reason)
	assert.Equal(t, TaskCacheRefresh, task.Type())
}

func TestLowStockScanSplitsByStatus(t *testing.T) {
	source := &fakeLowStock{products: []inventory.Product{
		{ID: 1, SKU: "A", Status: inventory.StatusLowStock},
		{ID: 2, SKU: "B", Status: inventory.StatusOutOfStock},
		{ID: 3, SKU: "C", StockQuantity: 0, MinStockLevel: 5},
		{ID: 4, SKU: "D", StockQuantity: 3, MinStockLevel: 5},
	}}
	job := NewLowStockScanJob(source, nil, testMetrics())

	report, err := job.Scan(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLowStockScanLimit, source.limit)
	require.Len(t, report.Low, 2)
	require.Len(t, report.OutOfStock, 2)
	assert.Equal(t, int64(4), report.Low[1].ID)
	assert.Equal(t, int64(3), report.OutOfStock[1].ID)
}

func TestLowStockScanPropagatesErrors(t *testing.T) {
	boom := errors.New("unreachable")
	job := NewLowStockScanJob(&fakeLowStock{err: boom}, nil, testMetrics())

	task, err := NewLowStockScanTask(LowStockScanPayload{Limit: 10})
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestLowStockScanRequiresSource(t *testing.T) {
	job := NewLowStockScanJob(nil, nil, testMetrics())
	_, err := job.Scan(context.Background(), 5)
	require.Error(t, err)
}

func TestClientRefreshCacheEnqueues(t *testing.T) {
	enq := &fakeEnqueuer{}
	client := NewClientWith(enq)

	require.NoError(t, client.RefreshCache(context.Background()))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TaskCacheRefresh, enq.tasks[0].Type())

	var payload CacheRefreshPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, "operator", payload.Reason)
}

func TestClientRefreshCacheTreatsDuplicateAsQueued(t *testing.T) {
	client := NewClientWith(&fakeEnqueuer{err: asynq.ErrDuplicateTask})
	require.NoError(t, client.RefreshCache(context.Background()))

	boom := errors.New("redis down")
	client = NewClientWith(&fakeEnqueuer{err: boom})
	require.ErrorIs(t, client.RefreshCache(context.Background()), boom)
}

func TestActiveCronSkipsDisabledEntries(t *testing.T) {
	task, err := NewLowStockScanTask(LowStockScanPayload{})
	require.NoError(t, err)
	entries := activeCron([]CronRegistration{
		{Spec: "", Task: task},
		{Spec: "@hourly", Task: nil},
		{Spec: "*/5 * * * *", Task: task},
	})
	require.Len(t, entries, 1)
	assert.Equal(t, "*/5 * * * *", entries[0].Spec)
}

func serveHealth(t *testing.T, h *Handler) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	return rec
}

func TestHealthReportsQueueInfo(t *testing.T) {
	h := NewHandler(fakeInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Retry: 1}}, nil)
	rec := serveHealth(t, h)
	require.Equal(t, http.StatusOK, rec.Code)

	var body QueueHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Pending)
	assert.Equal(t, 1, body.Retry)
}

func TestHealthWithoutInspector(t *testing.T) {
	rec := serveHealth(t, NewHandler(nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queue":"default"`)
}

func TestHealthUnavailable(t *testing.T) {
	rec := serveHealth(t, NewHandler(fakeInspector{err: errors.New("dial tcp")}, nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
