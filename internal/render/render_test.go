package render

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/inventory"
	"github.com/stockdesk/stockdesk/internal/network"
)

func TestProductBadgeTable(t *testing.T) {
	cases := map[inventory.ProductStatus]Badge{
		inventory.StatusInStock:    {Class: "in-stock", Label: "In Stock"},
		inventory.StatusLowStock:   {Class: "low-stock", Label: "Low Stock"},
		inventory.StatusOutOfStock: {Class: "out-of-stock", Label: "Out of Stock"},
		"DISCONTINUED":             {Class: "in-stock", Label: "In Stock"},
		"":                         {Class: "in-stock", Label: "In Stock"},
	}
	for status, want := range cases {
		assert.Equal(t, want, ProductBadge(status), "status %q", status)
	}
}

func TestProductsRendersRows(t *testing.T) {
	table := Products([]inventory.Product{{
		ID:            12,
		SKU:           "KB-204",
		Name:          "Mechanical Keyboard",
		Category:      "Accessories",
		Price:         decimal.RequireFromString("89.5"),
		StockQuantity: 3,
		Status:        inventory.StatusLowStock,
	}})

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.False(t, row.Placeholder)
	assert.Equal(t, int64(12), row.ID)
	require.Len(t, row.Cells, 6)
	assert.Equal(t, "$89.50", row.Cells[4].Text)
	assert.Equal(t, "Low Stock", row.Cells[5].Text)
	assert.Equal(t, "status-badge low-stock", row.Cells[5].Class)
	require.Len(t, row.Actions, 3)
	assert.Equal(t, "/products/12/edit", row.Actions[0].Href)
	assert.Equal(t, "/products/12/delete", row.Actions[1].Href)
	assert.Equal(t, "/products/12", row.Actions[2].Href)
}

func TestEmptyTablesProduceSinglePlaceholder(t *testing.T) {
	tables := map[string]Table{
		"products":     Products(nil),
		"search":       SearchResults(nil, "usb"),
		"failed":       ProductsFailed(),
		"suppliers":    Suppliers(nil),
		"transactions": Transactions(nil, nil),
	}
	for name, table := range tables {
		require.Len(t, table.Rows, 1, name)
		assert.True(t, table.Empty(), name)
		assert.Equal(t, len(table.Columns), table.Rows[0].Colspan, name)
	}
	assert.Equal(t, 7, Products(nil).Rows[0].Colspan)
	assert.Equal(t, `No products found matching "usb"`, tables["search"].Rows[0].Message)
	assert.True(t, tables["failed"].Rows[0].Error)
	assert.Equal(t, "Failed to load products. Please try again.", tables["failed"].Rows[0].Message)
}

func TestTransactionsResolveSuppliers(t *testing.T) {
	txs := inventory.SampleTransactions()
	txs = append(txs, inventory.Transaction{ID: 99, Number: "TXN-X", FromSupplierID: 404, ToSupplierID: 1, ProductID: 3, Status: "CANCELLED"})
	table := Transactions(txs, inventory.SampleSuppliers())

	require.Len(t, table.Rows, 11)
	first := table.Rows[0].Cells
	assert.Equal(t, "TechCorp Manufacturing", first[1].Text)
	assert.Equal(t, "Global Distributors Inc", first[2].Text)
	assert.Equal(t, "Product #1", first[3].Text)
	assert.Equal(t, "$42,500.00", first[5].Text)

	third := table.Rows[2].Cells
	assert.Equal(t, "IN TRANSIT", third[6].Text)
	assert.Equal(t, "status-badge low-stock", third[6].Class)

	last := table.Rows[10].Cells
	assert.Equal(t, "Unknown", last[1].Text)
	assert.Equal(t, "status-badge out-of-stock", last[6].Class)
}

func TestPaginationSummary(t *testing.T) {
	info := Pagination(inventory.Page[inventory.Product]{Number: 1, Size: 20, TotalElements: 32})
	assert.Equal(t, "Showing 21 to 32 of 32 products", info.Summary())
	assert.True(t, info.HasPrev)
	assert.False(t, info.HasNext)
}

func TestMoneyGrouping(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", Money(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "$12.00", Price(decimal.NewFromInt(12)))
	assert.Equal(t, "4.5", OneDecimal(4.5))
}

func TestConnectionsTable(t *testing.T) {
	g := network.Build(inventory.SampleSuppliers(), inventory.SampleTransactions(), 0)
	table := Connections(g.Table(20))
	require.Len(t, table.Rows, 10)
	first := table.Rows[0].Cells
	assert.Equal(t, "AsiaConnect Manufacturers", first[0].Text)
	assert.Equal(t, "$230,000.00", first[3].Text)
	assert.Equal(t, "$230,000.00", first[4].Text)

	empty := Connections(nil)
	assert.True(t, empty.Empty())
	assert.Equal(t, 5, empty.Rows[0].Colspan)
}
