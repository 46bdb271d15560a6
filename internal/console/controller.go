package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/debounce"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/network"
	"github.com/stockdesk/stockdesk/internal/render"
)

// Toast texts.
const (
	MsgCreated          = "Product created successfully!"
	MsgUpdated          = "Product updated successfully!"
	MsgDeleted          = "Product deleted successfully!"
	MsgDeleteFailed     = "Failed to delete product"
	MsgSaveFailed       = "Failed to save product"
	MsgDetailsFailed    = "Failed to load product details"
	MsgSearchFailed     = "Search failed"
	MsgInventoryFailed  = "Failed to load inventory"
	MsgDashboardFailed  = "Failed to load dashboard data"
	MsgStockUpdated     = "Stock updated successfully!"
	MsgStockInvalid     = "Stock quantity must be a whole number"
	MsgNothingSelected  = "No products selected"
	MsgBulkDeleteFailed = "Failed to delete selected products"
	MsgRefreshQueued    = "Cache refresh requested"
	MsgRefreshFailed    = "Failed to refresh cache"
)

// DefaultMountDelay is how long the analytics page waits before mounting charts.
const DefaultMountDelay = 100 * time.Millisecond

// Backend is the slice of the inventory API the console uses.
type Backend interface {
	ListProducts(ctx context.Context, params apiclient.ListParams) (inventory.Page[inventory.Product], error)
	GetProduct(ctx context.Context, id int64) (inventory.Product, error)
	SearchProducts(ctx context.Context, query string, page, size int) (inventory.Page[inventory.Product], error)
	ProductStats(ctx context.Context) (inventory.ProductStats, error)
	CreateProduct(ctx context.Context, input inventory.ProductInput) (inventory.Product, error)
	UpdateProduct(ctx context.Context, id int64, input inventory.ProductInput) (inventory.Product, error)
	UpdateStock(ctx context.Context, id int64, quantity int) (inventory.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	BulkDelete(ctx context.Context, ids []int64) (int, error)
}

// ChartUnmounter releases the chart handles held for a session.
type ChartUnmounter interface {
	Unmount(session string) int
}

// CacheRefresher triggers a backend cache refresh.
type CacheRefresher interface {
	RefreshCache(ctx context.Context) error
}

// SupplyChainSource returns the supplier network shown on the supply-chain pages.
type SupplyChainSource func(ctx context.Context) ([]inventory.Supplier, []inventory.Transaction, error)

// FixtureSupplyChain serves the built-in demo network.
func FixtureSupplyChain(context.Context) ([]inventory.Supplier, []inventory.Transaction, error) {
	return inventory.SampleSuppliers(), inventory.SampleTransactions(), nil
}

// Controller runs page loaders and product actions against a session State.
// It queues toasts on the state itself and returns errors for logging.
type Controller struct {
	logger      *slog.Logger
	backend     Backend
	charts      ChartUnmounter
	refresher   CacheRefresher
	supplyChain SupplyChainSource
	search      *debounce.Debouncer
	tracker     *Tracker
	validate    *validator.Validate
	mountDelay  time.Duration
}

// Option customises a Controller.
type Option func(*Controller)

// WithMountDelay overrides the analytics chart mount delay.
func WithMountDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.mountDelay = d
		}
	}
}

// WithRefresher routes cache refresh requests through r instead of the backend.
func WithRefresher(r CacheRefresher) Option {
	return func(c *Controller) {
		if r != nil {
			c.refresher = r
		}
	}
}

// WithSupplyChain replaces the supplier network source.
func WithSupplyChain(src SupplyChainSource) Option {
	return func(c *Controller) {
		if src != nil {
			c.supplyChain = src
		}
	}
}

// WithSessionTTL forgets request generations of sessions idle longer than d.
func WithSessionTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.tracker = NewTracker(d)
		}
	}
}

// NewController constructs a Controller. A nil debouncer gets the default window.
func NewController(logger *slog.Logger, backend Backend, charts ChartUnmounter, search *debounce.Debouncer, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if search == nil {
		search = debounce.New(debounce.DefaultDelay)
	}
	c := &Controller{
		logger:      logger,
		backend:     backend,
		charts:      charts,
		supplyChain: FixtureSupplyChain,
		search:      search,
		tracker:     NewTracker(DefaultTrackerIdle),
		validate:    NewValidator(),
		mountDelay:  DefaultMountDelay,
	}
	if r, ok := backend.(CacheRefresher); ok {
		c.refresher = r
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tracker exposes the request generation tracker.
func (c *Controller) Tracker() *Tracker { return c.tracker }

// Activate switches the session to page and runs its loader. Leaving the
// analytics page releases the session's charts. An unknown page is recorded
// but keeps the previous heading and shows no section.
func (c *Controller) Activate(ctx context.Context, session string, st *State, page Page) (PageView, error) {
	if st.CurrentPage == PageAnalytics && page != PageAnalytics && c.charts != nil {
		if n := c.charts.Unmount(session); n > 0 {
			c.logger.Debug("charts released", slog.String("session", session), slog.Int("count", n))
		}
	}
	if st.CurrentPage != page {
		st.SearchTerm = ""
	}
	st.CurrentPage = page
	if h, ok := page.Heading(); ok {
		st.Title, st.Subtitle = h.Title, h.Subtitle
	}
	c.tracker.Advance(session)
	return c.load(ctx, st)
}

func (c *Controller) load(ctx context.Context, st *State) (PageView, error) {
	view := PageView{
		Page:    st.CurrentPage,
		Heading: Heading{Title: st.Title, Subtitle: st.Subtitle},
		Known:   st.CurrentPage.Known(),
	}
	switch st.CurrentPage {
	case PageDashboard:
		return c.loadDashboard(ctx, st, view)
	case PageInventory:
		return c.loadInventoryPage(ctx, st, view)
	}
	// Listing pages fetch stats themselves; elsewhere a pending mutation
	// refreshes them once.
	if st.StatsStale {
		if stats, err := c.backend.ProductStats(ctx); err != nil {
			c.logger.Warn("stats reload failed", slog.Any("error", err))
		} else {
			c.applyStats(st, &view, stats)
		}
	}
	switch st.CurrentPage {
	case PageAnalytics:
		view.Analytics = analyticsView(c.mountDelay)
	case PageSuppliers, PageTransactions, PageNetwork:
		suppliers, txs, err := c.supplyChain(ctx)
		if err != nil {
			return view, fmt.Errorf("load supply chain: %w", err)
		}
		switch st.CurrentPage {
		case PageSuppliers:
			view.Suppliers = suppliersView(suppliers, txs)
		case PageTransactions:
			view.Transactions = transactionsView(suppliers, txs)
		default:
			view.Network = NetworkFor(suppliers, txs)
		}
	}
	return view, nil
}

func (c *Controller) loadDashboard(ctx context.Context, st *State, view PageView) (PageView, error) {
	var (
		g         errgroup.Group
		stats     inventory.ProductStats
		recent    inventory.Page[inventory.Product]
		statsErr  error
		recentErr error
	)
	g.Go(func() error {
		stats, statsErr = c.backend.ProductStats(ctx)
		return nil
	})
	g.Go(func() error {
		recent, recentErr = c.recentProducts(ctx)
		return nil
	})
	_ = g.Wait()

	view.Dashboard = &DashboardView{}
	if statsErr != nil {
		st.Toasts.Error(MsgDashboardFailed)
	} else {
		c.applyStats(st, &view, stats)
		view.Dashboard.StatsLoaded = true
	}
	if recentErr != nil {
		view.Dashboard.Recent = render.ProductsFailed()
	} else {
		view.Dashboard.Recent = render.Products(recent.Content)
	}
	return view, errors.Join(statsErr, recentErr)
}

func (c *Controller) loadInventoryPage(ctx context.Context, st *State, view PageView) (PageView, error) {
	var (
		g        errgroup.Group
		stats    inventory.ProductStats
		page     inventory.Page[inventory.Product]
		statsErr error
		pageErr  error
	)
	g.Go(func() error {
		stats, statsErr = c.backend.ProductStats(ctx)
		return nil
	})
	g.Go(func() error {
		page, pageErr = c.inventoryPage(ctx, st)
		return nil
	})
	_ = g.Wait()

	// Deleting the last rows of the last page leaves the listing past the end.
	if pageErr == nil && len(page.Content) == 0 && page.Number > 0 {
		st.InventoryPage = page.LastNumber()
		page, pageErr = c.inventoryPage(ctx, st)
	}
	if statsErr == nil {
		c.applyStats(st, &view, stats)
	}
	view.Inventory = c.inventoryView(st, page, pageErr)
	return view, errors.Join(statsErr, pageErr)
}

func (c *Controller) inventoryView(st *State, page inventory.Page[inventory.Product], err error) *InventoryView {
	if err != nil {
		st.Toasts.Error(MsgInventoryFailed)
		return &InventoryView{Table: render.ProductsFailed()}
	}
	return &InventoryView{Table: render.Products(page.Content), Pagination: render.Pagination(page)}
}

func (c *Controller) applyStats(st *State, view *PageView, stats inventory.ProductStats) {
	view.Stats = &stats
	st.ProductCount = stats.TotalProducts
	st.StatsStale = false
}

func (c *Controller) recentProducts(ctx context.Context) (inventory.Page[inventory.Product], error) {
	return c.backend.ListProducts(ctx, apiclient.ListParams{Page: 0, Size: RecentLimit})
}

func (c *Controller) inventoryPage(ctx context.Context, st *State) (inventory.Page[inventory.Product], error) {
	return c.backend.ListProducts(ctx, apiclient.ListParams{Page: st.InventoryPage, Size: st.InventorySize})
}

// SetInventoryPage moves the inventory listing to the zero-based page n.
func (c *Controller) SetInventoryPage(st *State, n int) {
	if n < 0 {
		n = 0
	}
	st.InventoryPage = n
}

// SearchTarget names the table a search result replaces.
type SearchTarget string

const (
	TargetRecent    SearchTarget = "recent"
	TargetInventory SearchTarget = "inventory"
)

// SearchResult is the outcome of one debounced search.
type SearchResult struct {
	Target     SearchTarget
	Table      render.Table
	Pagination *render.PageInfo
	// Stale is set when a newer search or navigation replaced this one.
	Stale bool
	// Skipped is set when an empty query has nothing to reload on this page.
	Skipped bool
}

// Search runs query after the debounce window. Only the last call per session
// survives; superseded or outdated calls come back Stale. An empty query
// reloads the page's default listing instead of searching.
func (c *Controller) Search(ctx context.Context, session string, st *State, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	var res SearchResult
	err := c.search.Do(ctx, session, func(ctx context.Context) error {
		gen := c.tracker.Advance(session)
		out, err := c.runSearch(ctx, st, query)
		if !c.tracker.Fresh(session, gen) {
			res = SearchResult{Stale: true}
			return nil
		}
		res = out
		return err
	})
	if errors.Is(err, debounce.ErrSuperseded) {
		return SearchResult{Stale: true}, nil
	}
	if err == nil && !res.Stale {
		st.SearchTerm = query
	}
	return res, err
}

func (c *Controller) runSearch(ctx context.Context, st *State, query string) (SearchResult, error) {
	if query == "" {
		switch st.CurrentPage {
		case PageDashboard:
			page, err := c.recentProducts(ctx)
			if err != nil {
				return SearchResult{Target: TargetRecent, Table: render.ProductsFailed()}, err
			}
			return SearchResult{Target: TargetRecent, Table: render.Products(page.Content)}, nil
		case PageInventory:
			page, err := c.inventoryPage(ctx, st)
			iv := c.inventoryView(st, page, err)
			res := SearchResult{Target: TargetInventory, Table: iv.Table}
			if err == nil {
				res.Pagination = &iv.Pagination
			}
			return res, err
		default:
			return SearchResult{Skipped: true}, nil
		}
	}

	target := TargetInventory
	if st.CurrentPage == PageDashboard {
		target = TargetRecent
	}
	page, err := c.backend.SearchProducts(ctx, query, 0, apiclient.DefaultPageSize)
	if err != nil {
		st.Toasts.Error(MsgSearchFailed)
		return SearchResult{Target: target, Skipped: true}, err
	}
	return SearchResult{Target: target, Table: render.SearchResults(page.Content, query)}, nil
}

// OpenCreate opens the modal with an empty form.
func (c *Controller) OpenCreate(st *State) ProductForm {
	st.Modal = Modal{Mode: ModalCreate}
	return ProductForm{MinStock: strconv.Itoa(inventory.DefaultMinStockLevel)}
}

// OpenEdit loads product id and opens the modal pre-filled with it. On failure
// the modal stays closed.
func (c *Controller) OpenEdit(ctx context.Context, st *State, id int64) (ProductForm, error) {
	p, err := c.backend.GetProduct(ctx, id)
	if err != nil {
		st.Toasts.Error(MsgDetailsFailed)
		return ProductForm{}, err
	}
	st.Modal = Modal{Mode: ModalEdit, ProductID: id}
	return FormFromProduct(p), nil
}

// CloseModal closes the product modal and discards the form.
func (c *Controller) CloseModal(st *State) {
	st.Modal = Modal{}
}

// Submit validates form and creates or updates the product. Invalid input
// fails without any backend call. On success the modal closes.
func (c *Controller) Submit(ctx context.Context, st *State, form ProductForm) (inventory.Product, error) {
	input, err := form.Input(c.validate)
	if err != nil {
		st.Toasts.Error(MsgRequiredFields)
		return inventory.Product{}, err
	}

	var p inventory.Product
	if form.ID > 0 {
		p, err = c.backend.UpdateProduct(ctx, form.ID, input)
		if err != nil {
			c.saveFailed(st, err)
			return inventory.Product{}, err
		}
		st.Toasts.Success(MsgUpdated)
		st.StatsStale = true
	} else {
		p, err = c.backend.CreateProduct(ctx, input)
		if err != nil {
			st.Toasts.Error(apiclient.UserMessage(err))
			c.saveFailed(st, err)
			return inventory.Product{}, err
		}
		st.Toasts.Success(MsgCreated)
		st.StatsStale = true
	}
	st.Modal = Modal{}
	return p, nil
}

// saveFailed adds the generic save failure unless the backend already
// explained a SKU conflict.
func (c *Controller) saveFailed(st *State, err error) {
	if !strings.Contains(apiclient.UserMessage(err), "SKU") {
		st.Toasts.Error(MsgSaveFailed)
	}
}

// Product loads one product for the detail view.
func (c *Controller) Product(ctx context.Context, st *State, id int64) (inventory.Product, error) {
	p, err := c.backend.GetProduct(ctx, id)
	if err != nil {
		st.Toasts.Error(MsgDetailsFailed)
		return inventory.Product{}, err
	}
	return p, nil
}

// Delete removes a product. Callers confirm with the operator first.
func (c *Controller) Delete(ctx context.Context, st *State, id int64) error {
	if err := c.backend.DeleteProduct(ctx, id); err != nil {
		st.Toasts.Error(MsgDeleteFailed)
		return err
	}
	st.deselect(id)
	st.StatsStale = true
	st.Toasts.Success(MsgDeleted)
	return nil
}

// AdjustStock sets the on-hand quantity of product id.
func (c *Controller) AdjustStock(ctx context.Context, st *State, id int64, quantity string) error {
	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || qty < 0 {
		st.Toasts.Error(MsgStockInvalid)
		return &ValidationError{Fields: []string{"Quantity"}}
	}
	if _, err := c.backend.UpdateStock(ctx, id, qty); err != nil {
		st.Toasts.Error(apiclient.UserMessage(err))
		return err
	}
	st.StatsStale = true
	st.Toasts.Success(MsgStockUpdated)
	return nil
}

// ToggleSelect flips product id in the bulk selection.
func (c *Controller) ToggleSelect(st *State, id int64) bool {
	return st.ToggleSelected(id)
}

// BulkDelete removes every selected product and clears the selection.
func (c *Controller) BulkDelete(ctx context.Context, st *State) (int, error) {
	if len(st.Selected) == 0 {
		st.Toasts.Warning(MsgNothingSelected)
		return 0, nil
	}
	n, err := c.backend.BulkDelete(ctx, st.Selected)
	if err != nil {
		st.Toasts.Error(MsgBulkDeleteFailed)
		return 0, err
	}
	st.ClearSelection()
	st.StatsStale = true
	st.Toasts.Success(fmt.Sprintf("Deleted %d products", n))
	return n, nil
}

// RefreshCache asks for a backend cache refresh.
func (c *Controller) RefreshCache(ctx context.Context, st *State) error {
	if c.refresher == nil {
		st.Toasts.Error(MsgRefreshFailed)
		return errors.New("console: no cache refresher configured")
	}
	if err := c.refresher.RefreshCache(ctx); err != nil {
		st.Toasts.Error(MsgRefreshFailed)
		return err
	}
	st.Toasts.Success(MsgRefreshQueued)
	return nil
}

// Network builds the supplier network graph.
func (c *Controller) Network(ctx context.Context) (*network.Graph, error) {
	suppliers, txs, err := c.supplyChain(ctx)
	if err != nil {
		return nil, fmt.Errorf("load supply chain: %w", err)
	}
	return network.Build(suppliers, txs, network.DefaultWidth), nil
}
