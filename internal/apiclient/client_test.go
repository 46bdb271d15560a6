package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

type recordedCall struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

type fakeBackend struct {
	mu     sync.Mutex
	calls  []recordedCall
	status int
	body   string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone(), body: body})
	status, payload := f.status, f.body
	f.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func (f *fakeBackend) last(t *testing.T) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

type observerFunc func(route string, status int, d time.Duration)

func (f observerFunc) ObserveBackendCall(route string, status int, d time.Duration) { f(route, status, d) }

func newTestClient(t *testing.T, backend *fakeBackend, opts ...Option) (*Client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(srv.URL+"/api/v1", opts...), logs
}

func TestListProductsUsesDefaults(t *testing.T) {
	backend := &fakeBackend{body: `{"success":true,"message":"ok","data":{"content":[{"id":1,"sku":"A-1","name":"Mouse","price":19.9,"stockQuantity":3,"status":"LOW_STOCK"}],"number":0,"size":20,"totalElements":1}}`}
	client, _ := newTestClient(t, backend)

	page, err := client.ListProducts(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Mouse", page.Content[0].Name)
	assert.True(t, page.Content[0].Price.Equal(decimal.RequireFromString("19.9")))

	call := backend.last(t)
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/api/v1/products", call.path)
	assert.Equal(t, "page=0&size=20&sortBy=updatedAt&sortDirection=DESC", call.query)
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))
}

func TestRequestMergesCallerHeaders(t *testing.T) {
	backend := &fakeBackend{body: `{"data":null}`}
	client, _ := newTestClient(t, backend, WithHeader("X-Client", "console"))

	err := client.Request(context.Background(), http.MethodGet, "/products/stats", RequestOptions{
		Headers: http.Header{"content-type": []string{"application/vnd.test+json"}},
	}, nil)
	require.NoError(t, err)

	call := backend.last(t)
	assert.Equal(t, "application/vnd.test+json", call.header.Get("Content-Type"))
	assert.Equal(t, "console", call.header.Get("X-Client"))
}

func TestRequestSurfacesServerMessage(t *testing.T) {
	backend := &fakeBackend{status: http.StatusConflict, body: `{"success":false,"message":"SKU already exists"}`}
	client, logs := newTestClient(t, backend)

	_, err := client.CreateProduct(context.Background(), inventory.ProductInput{Name: "x", SKU: "A-1"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "SKU already exists", apiErr.Message)
	assert.Equal(t, "SKU already exists", UserMessage(err))
	assert.Contains(t, logs.String(), "api request failed")
	assert.Equal(t, 1, strings.Count(logs.String(), "api request failed"))
}

func TestRequestFallsBackToGenericMessage(t *testing.T) {
	backend := &fakeBackend{status: http.StatusInternalServerError, body: `<html>boom</html>`}
	client, _ := newTestClient(t, backend)

	_, err := client.ProductStats(context.Background())
	require.Error(t, err)
	assert.Equal(t, "API request failed", UserMessage(err))
	assert.False(t, IsNotFound(err))
}

func TestRequestInvalidJSONOnSuccess(t *testing.T) {
	backend := &fakeBackend{body: `not json`}
	client, _ := newTestClient(t, backend)

	_, err := client.Categories(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestRequestTransportFailureMakesSingleAttempt(t *testing.T) {
	var attempts int
	hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		attempts++
		return nil, errors.New("connection refused")
	})}
	client := New("http://backend.invalid/api/v1", WithHTTPClient(hc), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	err := client.DeleteProduct(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.Equal(t, "API request failed", apiErr.Message)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTypedOperationsMapParameters(t *testing.T) {
	backend := &fakeBackend{body: `{"data":3}`}
	client, _ := newTestClient(t, backend)
	ctx := context.Background()

	deleted, err := client.BulkDelete(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	call := backend.last(t)
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Equal(t, "/api/v1/products/bulk", call.path)
	assert.JSONEq(t, `[1,2,3]`, string(call.body))

	backend.body = `{"data":{"id":9,"stockQuantity":12}}`
	product, err := client.UpdateStock(ctx, 9, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, product.StockQuantity)
	call = backend.last(t)
	assert.Equal(t, http.MethodPatch, call.method)
	assert.Equal(t, "/api/v1/products/9/stock", call.path)
	assert.JSONEq(t, `{"quantity":12}`, string(call.body))

	backend.body = `{"data":{"content":[],"number":1,"size":5,"totalElements":0}}`
	_, err = client.SearchProducts(ctx, "usb hub", 1, 5)
	require.NoError(t, err)
	call = backend.last(t)
	assert.Equal(t, "/api/v1/products/search", call.path)
	assert.Equal(t, "page=1&query=usb+hub&size=5", call.query)

	backend.body = `{"data":[]}`
	_, err = client.LowStock(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "limit=50", backend.last(t).query)

	backend.body = `{"message":"Cache refreshed","data":null}`
	require.NoError(t, client.RefreshCache(ctx))
	call = backend.last(t)
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/v1/products/cache/refresh", call.path)
}

func TestObserverReceivesRouteTemplate(t *testing.T) {
	backend := &fakeBackend{status: http.StatusNotFound, body: `{"message":"Product not found"}`}
	var gotRoute string
	var gotStatus int
	client, _ := newTestClient(t, backend, WithObserver(observerFunc(func(route string, status int, _ time.Duration) {
		gotRoute = route
		gotStatus = status
	})))

	_, err := client.GetProduct(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "GET /products/{id}", gotRoute)
	assert.Equal(t, http.StatusNotFound, gotStatus)
}

func TestWithTimeoutLeavesCallerClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c := New("http://backend", WithHTTPClient(shared), WithTimeout(5*time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.NotSame(t, shared, c.http)

	other := New("http://backend", WithHTTPClient(shared), WithTimeout(time.Second))
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.Equal(t, time.Second, other.http.Timeout)
}
