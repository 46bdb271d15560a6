package console

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/debounce"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

type fakeBackend struct {
	mu sync.Mutex

	products  []inventory.Product
	stats     inventory.ProductStats
	statsErr  error
	listErr   error
	searchErr error
	getErr    error
	saveErr   error
	deleteErr error

	onSearch func()
	// pager replaces the single fixed listing page when set.
	pager func(apiclient.ListParams) inventory.Page[inventory.Product]

	calls    map[string]int
	listed   []apiclient.ListParams
	searched []string
	created  []inventory.ProductInput
	updated  map[int64]inventory.ProductInput
	stock    map[int64]int
	deleted  []int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: []inventory.Product{
			{ID: 1, SKU: "SKU-1", Name: "Widget", Category: "Tools", Price: decimal.RequireFromString("12.5"), StockQuantity: 3, MinStockLevel: 10, Status: inventory.StatusLowStock},
			{ID: 2, SKU: "SKU-2", Name: "Gadget", Category: "Tools", Price: decimal.NewFromInt(40), StockQuantity: 50, MinStockLevel: 10, Status: inventory.StatusInStock},
		},
		stats:   inventory.ProductStats{TotalProducts: 2, LowStockCount: 1, CategoriesCount: 1, TotalInventoryValue: decimal.RequireFromString("2037.5")},
		calls:   make(map[string]int),
		updated: make(map[int64]inventory.ProductInput),
		stock:   make(map[int64]int),
	}
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) page() inventory.Page[inventory.Product] {
	return inventory.Page[inventory.Product]{Content: f.products, Size: 20, TotalElements: int64(len(f.products)), TotalPages: 1}
}

func (f *fakeBackend) ListProducts(_ context.Context, params apiclient.ListParams) (inventory.Page[inventory.Product], error) {
	f.hit("list")
	f.mu.Lock()
	f.listed = append(f.listed, params)
	f.mu.Unlock()
	if f.listErr != nil {
		return inventory.Page[inventory.Product]{}, f.listErr
	}
	if f.pager != nil {
		return f.pager(params), nil
	}
	return f.page(), nil
}

func (f *fakeBackend) GetProduct(_ context.Context, id int64) (inventory.Product, error) {
	f.hit("get")
	if f.getErr != nil {
		return inventory.Product{}, f.getErr
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return inventory.Product{}, &apiclient.APIError{Status: 404, Message: "Product not found"}
}

func (f *fakeBackend) SearchProducts(_ context.Context, query string, _, _ int) (inventory.Page[inventory.Product], error) {
	f.hit("search")
	f.mu.Lock()
	f.searched = append(f.searched, query)
	f.mu.Unlock()
	if f.onSearch != nil {
		f.onSearch()
	}
	if f.searchErr != nil {
		return inventory.Page[inventory.Product]{}, f.searchErr
	}
	var out []inventory.Product
	for _, p := range f.products {
		if p.Name == query || p.SKU == query {
			out = append(out, p)
		}
	}
	return inventory.Page[inventory.Product]{Content: out, Size: 20, TotalElements: int64(len(out))}, nil
}

func (f *fakeBackend) ProductStats(context.Context) (inventory.ProductStats, error) {
	f.hit("stats")
	return f.stats, f.statsErr
}

func (f *fakeBackend) CreateProduct(_ context.Context, input inventory.ProductInput) (inventory.Product, error) {
	f.hit("create")
	if f.saveErr != nil {
		return inventory.Product{}, f.saveErr
	}
	f.created = append(f.created, input)
	return inventory.Product{ID: 99, Name: input.Name, SKU: input.SKU}, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, id int64, input inventory.ProductInput) (inventory.Product, error) {
	f.hit("update")
	if f.saveErr != nil {
		return inventory.Product{}, f.saveErr
	}
	f.updated[id] = input
	return inventory.Product{ID: id, Name: input.Name}, nil
}

func (f *fakeBackend) UpdateStock(_ context.Context, id int64, quantity int) (inventory.Product, error) {
	f.hit("stock")
	if f.saveErr != nil {
		return inventory.Product{}, f.saveErr
	}
	f.stock[id] = quantity
	return inventory.Product{ID: id, StockQuantity: quantity}, nil
}

func (f *fakeBackend) DeleteProduct(_ context.Context, id int64) error {
	f.hit("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) BulkDelete(_ context.Context, ids []int64) (int, error) {
	f.hit("bulk")
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = append(f.deleted, ids...)
	return len(ids), nil
}

func (f *fakeBackend) RefreshCache(context.Context) error {
	f.hit("refresh")
	return nil
}

type fakeCharts struct {
	mu       sync.Mutex
	released []string
}

func (c *fakeCharts) Unmount(session string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = append(c.released, session)
	return 3
}

// manualTimers fires debounced calls only when the test says so.
type manualTimers struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (m *manualTimers) after(_ time.Duration, fn func()) debounce.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (m *manualTimers) scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// fire runs timer i unless it was stopped.
func (m *manualTimers) fire(i int) {
	m.mu.Lock()
	t := m.timers[i]
	m.mu.Unlock()
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.mu.Unlock()
	t.fn()
}

func immediate(_ time.Duration, fn func()) debounce.Timer {
	t := &manualTimer{fn: fn, fired: true}
	go fn()
	return t
}

func newTestController(backend *fakeBackend, charts ChartUnmounter) *Controller {
	return NewController(nil, backend, charts, debounce.New(time.Millisecond, debounce.WithAfterFunc(immediate)))
}
