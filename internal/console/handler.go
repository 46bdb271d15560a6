package console

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/network"
	"github.com/stockdesk/stockdesk/internal/platform/httpx"
	"github.com/stockdesk/stockdesk/internal/render"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
)

// Handler serves the console pages and product actions. Every mutation ends
// in a redirect back to the current page, which reloads it.
type Handler struct {
	logger    *slog.Logger
	console   *Controller
	templates *view.Engine
	csrf      *shared.CSRFManager
	now       func() time.Time
}

// NewHandler constructs the console handler.
func NewHandler(logger *slog.Logger, console *Controller, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		console:   console,
		templates: templates,
		csrf:      csrf,
		now:       time.Now,
	}
}

// WithNow overrides the clock used to age toasts.
func (h *Handler) WithNow(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}

// NavItem is one sidebar entry.
type NavItem struct {
	Page   Page
	Title  string
	Active bool
	Badge  int64
}

// PageData feeds pages/console.html.
type PageData struct {
	View       PageView
	Nav        []NavItem
	SearchTerm string
	Selected   []int64
}

// FormData feeds pages/product_form.html.
type FormData struct {
	Form    ProductForm
	Editing bool
	Back    string
}

// ProductData feeds the detail and delete confirmation pages.
type ProductData struct {
	Product inventory.Product
	Details []render.Detail
	Badge   render.Badge
	Back    string
}

// SearchData feeds partials/search.html.
type SearchData struct {
	Result SearchResult
	Toasts []view.ToastView
}

type request struct {
	sess  *shared.Session
	state *State
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request) (request, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.handleServerError(w, "load session", shared.ErrSessionMissing)
		return request{}, false
	}
	st, err := LoadState(sess)
	if err != nil {
		h.logger.Warn("console state reset", slog.String("session", sess.ID), slog.Any("error", err))
	}
	st.Toasts.WithNow(h.now)
	return request{sess: sess, state: st}, true
}

func (h *Handler) save(req request) {
	if err := SaveState(req.sess, req.state); err != nil {
		h.logError("save console state", err)
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, PagePath(req.state.CurrentPage), http.StatusSeeOther)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	page := Page(chi.URLParam(r, "page"))
	pv, err := h.console.Activate(r.Context(), req.sess.ID, req.state, page)
	if err != nil {
		h.logError("load page "+string(page), err)
	}
	data := PageData{
		View:       pv,
		Nav:        h.nav(req.state),
		SearchTerm: req.state.SearchTerm,
		Selected:   req.state.Selected,
	}
	h.render(w, r, req, http.StatusOK, "pages/console.html", data)
}

func (h *Handler) nav(st *State) []NavItem {
	items := make([]NavItem, 0, len(Navigation))
	for _, p := range Navigation {
		hd, _ := p.Heading()
		item := NavItem{Page: p, Title: hd.Title, Active: p == st.CurrentPage}
		if p == PageInventory {
			item.Badge = st.ProductCount
		}
		items = append(items, item)
	}
	return items
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	res, err := h.console.Search(r.Context(), req.sess.ID, req.state, r.URL.Query().Get("q"))
	if res.Stale {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logError("search products", err)
	}
	data := SearchData{Result: res, Toasts: view.ToastViews(req.state.Toasts.Active(), h.now())}
	h.save(req)
	if err := h.templates.Render(w, "partials/search.html", view.TemplateData{Data: data}); err != nil {
		h.logError("render search", err)
	}
}

func (h *Handler) handleInventoryPage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	h.console.SetInventoryPage(req.state, n)
	h.save(req)
	http.Redirect(w, r, PagePath(PageInventory), http.StatusSeeOther)
}

func (h *Handler) showCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	form := h.console.OpenCreate(req.state)
	h.renderForm(w, r, req, http.StatusOK, form)
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	id, ok := productID(w, r)
	if !ok {
		return
	}
	form, err := h.console.OpenEdit(r.Context(), req.state, id)
	if err != nil {
		h.logError("load product for edit", err)
		h.back(w, r, req)
		return
	}
	h.renderForm(w, r, req, http.StatusOK, form)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := ProductForm{
		Name:        r.PostFormValue("name"),
		SKU:         r.PostFormValue("sku"),
		Category:    r.PostFormValue("category"),
		Price:       r.PostFormValue("price"),
		Stock:       r.PostFormValue("stockQuantity"),
		MinStock:    r.PostFormValue("minStockLevel"),
		Description: r.PostFormValue("description"),
	}
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		form.ID = id
	}

	if _, err := h.console.Submit(r.Context(), req.state, form); err != nil {
		status := http.StatusBadRequest
		if !IsValidation(err) {
			h.logError("save product", err)
			status = http.StatusBadGateway
			var sc httpx.StatusCoder
			if errors.As(err, &sc) && sc.HTTPStatus() < 500 {
				status = sc.HTTPStatus()
			}
		}
		h.renderForm(w, r, req, status, form)
		return
	}
	h.back(w, r, req)
}

func (h *Handler) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	h.console.CloseModal(req.state)
	h.back(w, r, req)
}

func (h *Handler) showProduct(w http.ResponseWriter, r *http.Request) {
	h.showProductPage(w, r, "pages/product_detail.html")
}

func (h *Handler) showDelete(w http.ResponseWriter, r *http.Request) {
	h.showProductPage(w, r, "pages/product_delete.html")
}

func (h *Handler) showProductPage(w http.ResponseWriter, r *http.Request, name string) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	id, ok := productID(w, r)
	if !ok {
		return
	}
	p, err := h.console.Product(r.Context(), req.state, id)
	if err != nil {
		h.logError("load product", err)
		h.back(w, r, req)
		return
	}
	data := ProductData{
		Product: p,
		Details: render.ProductDetails(p),
		Badge:   render.ProductBadge(p.Status),
		Back:    PagePath(req.state.CurrentPage),
	}
	h.render(w, r, req, http.StatusOK, name, data)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if r.PostFormValue("confirm") == "yes" {
		if err := h.console.Delete(r.Context(), req.state, id); err != nil {
			h.logError("delete product", err)
		}
	}
	h.back(w, r, req)
}

func (h *Handler) handleStock(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.console.AdjustStock(r.Context(), req.state, id, r.PostFormValue("quantity")); err != nil && !IsValidation(err) {
		h.logError("update stock", err)
	}
	h.back(w, r, req)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	id, ok := productID(w, r)
	if !ok {
		return
	}
	selected := h.console.ToggleSelect(req.state, id)
	h.save(req)
	if r.Header.Get("Accept") == "application/json" {
		httpx.JSON(w, http.StatusOK, map[string]any{"id": id, "selected": selected, "count": len(req.state.Selected)})
		return
	}
	http.Redirect(w, r, PagePath(req.state.CurrentPage), http.StatusSeeOther)
}

func (h *Handler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	if _, err := h.console.BulkDelete(r.Context(), req.state); err != nil {
		h.logError("bulk delete products", err)
	}
	h.back(w, r, req)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	req, ok := h.begin(w, r)
	if !ok {
		return
	}
	if err := h.console.RefreshCache(r.Context(), req.state); err != nil {
		h.logError("refresh cache", err)
	}
	h.back(w, r, req)
}

// NetworkResponse is the JSON form of the supplier network.
type NetworkResponse struct {
	Graph       *network.Graph       `json:"graph"`
	Metrics     network.Metrics      `json:"metrics"`
	Top         []network.Connection `json:"top"`
	Connections []network.Connection `json:"connections"`
}

func (h *Handler) handleNetworkJSON(w http.ResponseWriter, r *http.Request) {
	g, err := h.console.Network(r.Context())
	if err != nil {
		h.logError("build network", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NetworkResponse{
		Graph:       g,
		Metrics:     g.Metrics(),
		Top:         g.Top(TopConnections),
		Connections: g.Table(ConnectionsListed),
	})
}

func (h *Handler) handleNetworkSVG(w http.ResponseWriter, r *http.Request) {
	g, err := h.console.Network(r.Context())
	if err != nil {
		h.handleServerError(w, "build network", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(g.SVG()))
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, req request, status int, form ProductForm) {
	data := FormData{
		Form:    form,
		Editing: form.ID > 0,
		Back:    PagePath(req.state.CurrentPage),
	}
	h.render(w, r, req, status, "pages/product_form.html", data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, req request, status int, name string, data any) {
	token, err := h.csrf.EnsureToken(req.sess)
	if err != nil {
		h.handleServerError(w, "issue csrf token", err)
		return
	}
	td := view.TemplateData{
		Title:       req.state.Title,
		Subtitle:    req.state.Subtitle,
		CSRFToken:   token,
		Toasts:      view.ToastViews(req.state.Toasts.Active(), h.now()),
		CurrentPage: string(req.state.CurrentPage),
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	h.save(req)
	if err := h.templates.RenderStatus(w, status, name, td); err != nil {
		h.logError("render "+name, err)
	}
}

// back saves the state and redirects to the current page, reloading it.
func (h *Handler) back(w http.ResponseWriter, r *http.Request, req request) {
	h.save(req)
	http.Redirect(w, r, PagePath(req.state.CurrentPage), http.StatusSeeOther)
}

// PagePath is the URL of page.
func PagePath(p Page) string {
	return "/pages/" + url.PathEscape(string(p))
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	if h.logger == nil || err == nil {
		return
	}
	h.logger.Error(context, slog.Any("error", err))
}
