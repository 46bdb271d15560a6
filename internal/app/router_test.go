package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/observability"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/jobs"
)

type routerFixture struct {
	sessions *shared.SessionManager
	csrf     *shared.CSRFManager
	logger   *slog.Logger
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return routerFixture{
		sessions: shared.NewSessionManager(client, "stockdesk_session", "secret", time.Hour, false),
		csrf:     shared.NewCSRFManager("csrf"),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (f routerFixture) stack(h http.Handler) http.Handler {
	mws := MiddlewareStack(MiddlewareConfig{
		Logger:         f.logger,
		Config:         &Config{AppEnv: "test"},
		SessionManager: f.sessions,
		CSRFManager:    f.csrf,
	})
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestRouterServesProbesAndAssets(t *testing.T) {
	f := newRouterFixture(t)
	router := NewRouter(RouterParams{
		Logger:         f.logger,
		Config:         &Config{AppEnv: "test"},
		SessionManager: f.sessions,
		CSRFManager:    f.csrf,
		JobHandler:     jobs.NewHandler(nil, f.logger),
		Metrics:        observability.NewMetrics(),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stockdesk_http_requests_total")
}

func TestCSRFMiddlewareGuardsMutations(t *testing.T) {
	f := newRouterFixture(t)
	r := chi.NewRouter()
	r.Get("/token", func(w http.ResponseWriter, r *http.Request) {
		token, err := f.csrf.EnsureToken(shared.SessionFromContext(r.Context()))
		require.NoError(t, err)
		_, _ = io.WriteString(w, token)
	})
	r.Post("/mutate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := f.stack(r)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.AddCookie(cookies[0])
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.AddCookie(cookies[0])
	req.Header.Set(shared.CSRFHeader, token)
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader(shared.CSRFFormField+"="+token))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
