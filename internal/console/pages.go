package console

import (
	"html/template"
	"time"

	"github.com/stockdesk/stockdesk/internal/analytics"
	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/network"
	"github.com/stockdesk/stockdesk/internal/render"
)

// Number of dashboard rows, network highlights and network table rows.
const (
	RecentLimit       = 5
	TopConnections    = 5
	ConnectionsListed = 20
)

// PageView is everything a page render needs. Only the section matching Page
// is populated; an unknown page populates none.
type PageView struct {
	Page    Page
	Heading Heading
	Known   bool
	// Stats feeds the stat cards and the sidebar product badge.
	Stats        *inventory.ProductStats
	Dashboard    *DashboardView
	Inventory    *InventoryView
	Analytics    *AnalyticsView
	Suppliers    *SuppliersView
	Transactions *TransactionsView
	Network      *NetworkView
}

// Visible reports whether section p is shown.
func (v PageView) Visible(p Page) bool {
	return v.Known && v.Page == p
}

// DashboardView is the stats cards plus the recent products table.
type DashboardView struct {
	StatsLoaded bool
	Recent      render.Table
}

// InventoryView is one page of the full product listing.
type InventoryView struct {
	Table      render.Table
	Pagination render.PageInfo
}

// AnalyticsView tells the browser where and when to fetch the charts.
type AnalyticsView struct {
	Tabs         []string
	Tab          string
	MountDelayMS int64
}

// SuppliersView lists the supplier network.
type SuppliersView struct {
	Summary analytics.SupplierSummary
	Table   render.Table
}

// TransactionsView lists transactions between suppliers.
type TransactionsView struct {
	Summary analytics.TransactionSummary
	Table   render.Table
}

// NetworkView is the diagram, its metrics and the connection listings.
type NetworkView struct {
	Metrics network.Metrics
	Top     []network.Connection
	Table   render.Table
	SVG     template.HTML
}

func analyticsView(delay time.Duration) *AnalyticsView {
	return &AnalyticsView{
		Tabs:         analytics.Groups(),
		Tab:          analytics.GroupInventory,
		MountDelayMS: delay.Milliseconds(),
	}
}

func suppliersView(suppliers []inventory.Supplier, txs []inventory.Transaction) *SuppliersView {
	return &SuppliersView{
		Summary: analytics.SummariseSuppliers(suppliers, txs),
		Table:   render.Suppliers(suppliers),
	}
}

func transactionsView(suppliers []inventory.Supplier, txs []inventory.Transaction) *TransactionsView {
	return &TransactionsView{
		Summary: analytics.SummariseTransactions(txs),
		Table:   render.Transactions(txs, suppliers),
	}
}

// NetworkFor builds the network page from a supplier set.
func NetworkFor(suppliers []inventory.Supplier, txs []inventory.Transaction) *NetworkView {
	g := network.Build(suppliers, txs, network.DefaultWidth)
	return &NetworkView{
		Metrics: g.Metrics(),
		Top:     g.Top(TopConnections),
		Table:   render.Connections(g.Table(ConnectionsListed)),
		SVG:     g.SVG(),
	}
}
