package render

import (
	"fmt"
	"strconv"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// ProductColumns is the header of every product table.
var ProductColumns = []string{"SKU", "Name", "Category", "Stock", "Price", "Status", "Actions"}

// Products renders one row per product, or the empty placeholder.
func Products(products []inventory.Product) Table {
	return productsWithEmpty(products, EmptyProducts)
}

// SearchResults renders products found for query.
func SearchResults(products []inventory.Product, query string) Table {
	return productsWithEmpty(products, fmt.Sprintf("No products found matching %q", query))
}

// ProductsFailed renders the load-failure row.
func ProductsFailed() Table {
	return Failed(ProductColumns, FailedProducts)
}

func productsWithEmpty(products []inventory.Product, empty string) Table {
	if len(products) == 0 {
		return Placeholder(ProductColumns, empty)
	}
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		badge := ProductBadge(p.Status)
		rows = append(rows, Row{
			ID: p.ID,
			Cells: []Cell{
				{Text: p.SKU},
				{Text: p.Name},
				{Text: p.Category},
				{Text: strconv.Itoa(p.StockQuantity)},
				{Text: Price(p.Price)},
				{Text: badge.Label, Class: "status-badge " + badge.Class},
			},
			Actions: productActions(p.ID),
		})
	}
	return Table{Columns: ProductColumns, Rows: rows}
}

func productActions(id int64) []Action {
	base := "/products/" + strconv.FormatInt(id, 10)
	return []Action{
		{Name: "edit", Label: "Edit", Icon: "fa-edit", Href: base + "/edit", Method: "GET"},
		{Name: "delete", Label: "Delete", Icon: "fa-trash", Href: base + "/delete", Method: "GET"},
		{Name: "view", Label: "View", Icon: "fa-eye", Href: base, Method: "GET"},
	}
}

// Detail is a label/value pair of the product detail view.
type Detail struct {
	Label string
	Value string
}

// ProductDetails lists the fields shown when viewing a product.
func ProductDetails(p inventory.Product) []Detail {
	return []Detail{
		{Label: "Name", Value: p.Name},
		{Label: "SKU", Value: p.SKU},
		{Label: "Category", Value: p.Category},
		{Label: "Price", Value: Price(p.Price)},
		{Label: "Stock", Value: strconv.Itoa(p.StockQuantity)},
		{Label: "Status", Value: ProductBadge(p.Status).Label},
		{Label: "Created", Value: formatTime(p.CreatedAt)},
		{Label: "Updated", Value: formatTime(p.UpdatedAt)},
	}
}

func formatTime(ts inventory.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("02 Jan 2006 15:04")
}

// PageInfo is the pagination footer.
type PageInfo struct {
	Start, End, Total int64
	Page, Size        int
	HasPrev, HasNext  bool
}

// Pagination builds the footer for a product page.
func Pagination(page inventory.Page[inventory.Product]) PageInfo {
	start, end := page.Range()
	return PageInfo{
		Start:   start,
		End:     end,
		Total:   page.TotalElements,
		Page:    page.Number,
		Size:    page.Size,
		HasPrev: page.HasPrev(),
		HasNext: page.HasNext(),
	}
}

// Summary is the "Showing x to y of z" text.
func (p PageInfo) Summary() string {
	return fmt.Sprintf("Showing %d to %d of %d products", p.Start, p.End, p.Total)
}
