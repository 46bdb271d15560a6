package analytichttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/stockdesk/stockdesk/internal/analytics"
	"github.com/stockdesk/stockdesk/internal/analytics/export"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

const requestTimeout = 2 * time.Second

// ChartService renders chart groups.
type ChartService interface {
	RenderGroup(ctx context.Context, group string) ([]analytics.Rendered, error)
	Catalog() *analytics.Catalog
}

// Mounter creates chart handles for a session.
type Mounter interface {
	Mount(session, group string) (int, error)
}

// ChartsView feeds the charts fragment.
type ChartsView struct {
	Tab     string
	Tabs    []string
	Charts  []analytics.Rendered
	Created int
}

// Handler serves the chart fragment loaded after the analytics page mounts,
// plus CSV exports of the datasets.
type Handler struct {
	logger    *slog.Logger
	service   ChartService
	registry  Mounter
	templates *view.Engine
	csvPool   sync.Pool
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service ChartService, registry Mounter, templates *view.Engine) *Handler {
	h := &Handler{
		logger:    logger,
		service:   service,
		registry:  registry,
		templates: templates,
	}
	h.csvPool.New = func() any { return new(bytes.Buffer) }
	return h
}

func (h *Handler) handleCharts(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.handleServerError(w, "load charts", shared.ErrSessionMissing)
		return
	}
	tab := strings.TrimSpace(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = analytics.GroupInventory
	}

	created, err := h.registry.Mount(sess.ID, tab)
	if errors.Is(err, analytics.ErrUnknownGroup) {
		http.Error(w, "unknown chart group", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.handleServerError(w, "mount charts", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	charts, err := h.service.RenderGroup(ctx, tab)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}

	data := view.TemplateData{
		CurrentPage: "analytics",
		CurrentPath: r.URL.Path,
		Data: ChartsView{
			Tab:     tab,
			Tabs:    analytics.Groups(),
			Charts:  charts,
			Created: created,
		},
	}
	if err := h.templates.Render(w, "partials/charts.html", data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleChartCSV(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("chart"))
	chart, ok := h.service.Catalog().Chart(name)
	if !ok {
		http.Error(w, "unknown chart", http.StatusNotFound)
		return
	}
	h.writeCSV(w, name+".csv", func(buf *bytes.Buffer) error {
		return export.WriteChartCSV(buf, chart)
	})
}

func (h *Handler) handleTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	h.writeCSV(w, "transactions.csv", func(buf *bytes.Buffer) error {
		return export.WriteTransactionsCSV(buf, inventory.SampleTransactions(), inventory.SampleSuppliers())
	})
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, fill func(*bytes.Buffer) error) {
	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := fill(buf); err != nil {
		h.handleServerError(w, "write csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
