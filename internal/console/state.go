// Package console drives the operator dashboard: page routing, per-page
// loaders, product search and the product form.
package console

import (
	"slices"

	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/notify"
	"github.com/stockdesk/stockdesk/internal/shared"
)

// Page names a dashboard section.
type Page string

const (
	PageDashboard    Page = "dashboard"
	PageInventory    Page = "inventory"
	PageAnalytics    Page = "analytics"
	PageSuppliers    Page = "suppliers"
	PageTransactions Page = "transactions"
	PageNetwork      Page = "network"
	PageOrders       Page = "orders"
	PageUsers        Page = "users"
	PageSettings     Page = "settings"
)

// Heading is the title and subtitle shown above a page.
type Heading struct {
	Title    string
	Subtitle string
}

var headings = map[Page]Heading{
	PageDashboard:    {"Dashboard", "Real-time inventory monitoring and analytics"},
	PageInventory:    {"Inventory Management", "Manage all your inventory items"},
	PageAnalytics:    {"Analytics", "Detailed analytics and insights"},
	PageSuppliers:    {"Suppliers", "Manage suppliers and purchase orders"},
	PageTransactions: {"Transactions", "Track goods moving between suppliers"},
	PageNetwork:      {"Supply Network", "Visualise trading relationships"},
	PageOrders:       {"Orders", "View and manage customer orders"},
	PageUsers:        {"Users", "Manage system users and permissions"},
	PageSettings:     {"Settings", "Configure system settings"},
}

// Navigation lists the sidebar entries in display order.
var Navigation = []Page{
	PageDashboard, PageInventory, PageAnalytics, PageSuppliers,
	PageTransactions, PageNetwork, PageOrders, PageUsers, PageSettings,
}

// Heading looks up the page title pair.
func (p Page) Heading() (Heading, bool) {
	h, ok := headings[p]
	return h, ok
}

// Known reports whether p has a section in the layout.
func (p Page) Known() bool {
	_, ok := headings[p]
	return ok
}

// ModalMode is the product modal state.
type ModalMode string

const (
	ModalClosed ModalMode = ""
	ModalCreate ModalMode = "create"
	ModalEdit   ModalMode = "edit"
)

// Modal tracks whether the product form is open and for which product.
type Modal struct {
	Mode      ModalMode `json:"mode,omitempty"`
	ProductID int64     `json:"productId,omitempty"`
}

// Open reports whether the modal is showing.
func (m Modal) Open() bool { return m.Mode != ModalClosed }

// State is the per-operator console state kept in the session between requests.
type State struct {
	CurrentPage   Page          `json:"currentPage"`
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle"`
	InventoryPage int           `json:"inventoryPage"`
	InventorySize int           `json:"inventorySize"`
	SearchTerm    string        `json:"searchTerm,omitempty"`
	Selected      []int64       `json:"selected,omitempty"`
	Modal         Modal         `json:"modal"`
	// ProductCount is the last known catalog size shown in the sidebar.
	ProductCount  int64         `json:"productCount"`
	// StatsStale is set by a mutation until the next page load refetches stats.
	StatsStale    bool          `json:"statsStale,omitempty"`
	Toasts        *notify.Queue `json:"toasts"`
}

const stateKey = "console"

// NewState returns the state of a fresh session: dashboard, first inventory page.
func NewState() *State {
	h := headings[PageDashboard]
	return &State{
		CurrentPage:   PageDashboard,
		Title:         h.Title,
		Subtitle:      h.Subtitle,
		InventorySize: apiclient.DefaultPageSize,
		Toasts:        notify.NewQueue(),
	}
}

// LoadState reads the console state from sess, falling back to NewState.
func LoadState(sess *shared.Session) (*State, error) {
	st := NewState()
	if sess == nil {
		return st, nil
	}
	if _, err := sess.GetJSON(stateKey, st); err != nil {
		return NewState(), err
	}
	if st.Toasts == nil {
		st.Toasts = notify.NewQueue()
	}
	if st.InventorySize <= 0 {
		st.InventorySize = apiclient.DefaultPageSize
	}
	if st.InventoryPage < 0 {
		st.InventoryPage = 0
	}
	return st, nil
}

// SaveState writes st into sess.
func SaveState(sess *shared.Session, st *State) error {
	if sess == nil {
		return shared.ErrSessionMissing
	}
	return sess.SetJSON(stateKey, st)
}

// ToggleSelected flips id in the selection and reports whether it is now selected.
func (s *State) ToggleSelected(id int64) bool {
	if i := slices.Index(s.Selected, id); i >= 0 {
		s.Selected = slices.Delete(s.Selected, i, i+1)
		return false
	}
	s.Selected = append(s.Selected, id)
	return true
}

// IsSelected reports whether id is in the bulk selection.
func (s *State) IsSelected(id int64) bool {
	return slices.Contains(s.Selected, id)
}

// ClearSelection empties the bulk selection.
func (s *State) ClearSelection() {
	s.Selected = nil
}

func (s *State) deselect(id int64) {
	if i := slices.Index(s.Selected, id); i >= 0 {
		s.Selected = slices.Delete(s.Selected, i, i+1)
	}
}
