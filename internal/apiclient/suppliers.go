package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// ListSuppliers returns one page of suppliers sorted by name.
func (c *Client) ListSuppliers(ctx context.Context, page, size int, sortBy, sortDir string) (inventory.Page[inventory.Supplier], error) {
	if sortBy == "" {
		sortBy = "name"
	}
	if sortDir == "" {
		sortDir = "asc"
	}
	q := pageQuery(page, size)
	q.Set("sortBy", sortBy)
	q.Set("sortDir", sortDir)
	var result inventory.Page[inventory.Supplier]
	err := c.Request(ctx, http.MethodGet, "/suppliers", RequestOptions{Query: q}, &result)
	return result, err
}

// GetSupplier fetches one supplier.
func (c *Client) GetSupplier(ctx context.Context, id int64) (inventory.Supplier, error) {
	var supplier inventory.Supplier
	err := c.Request(ctx, http.MethodGet, "/suppliers/"+strconv.FormatInt(id, 10), RequestOptions{Route: "/suppliers/{id}"}, &supplier)
	return supplier, err
}

// SearchSuppliers matches suppliers by name or code.
func (c *Client) SearchSuppliers(ctx context.Context, term string, page, size int) (inventory.Page[inventory.Supplier], error) {
	q := pageQuery(page, size)
	q.Set("q", term)
	var result inventory.Page[inventory.Supplier]
	err := c.Request(ctx, http.MethodGet, "/suppliers/search", RequestOptions{Query: q}, &result)
	return result, err
}

// TopRatedSuppliers lists the best rated suppliers.
func (c *Client) TopRatedSuppliers(ctx context.Context, limit int) ([]inventory.Supplier, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var suppliers []inventory.Supplier
	err := c.Request(ctx, http.MethodGet, "/suppliers/top-rated", RequestOptions{Query: q}, &suppliers)
	return suppliers, err
}

// SupplierStatistics fetches the supplier summary.
func (c *Client) SupplierStatistics(ctx context.Context) (inventory.SupplierStats, error) {
	var stats inventory.SupplierStats
	err := c.Request(ctx, http.MethodGet, "/suppliers/statistics", RequestOptions{}, &stats)
	return stats, err
}
