package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// Listing defaults used by the console.
const (
	DefaultPageSize      = 20
	DefaultSortBy        = "updatedAt"
	DefaultSortDirection = "DESC"
	DefaultLowStockLimit = 50
)

// ListParams controls product listing.
type ListParams struct {
	Page          int
	Size          int
	SortBy        string
	SortDirection string
}

func (p ListParams) values() url.Values {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.SortDirection == "" {
		p.SortDirection = DefaultSortDirection
	}
	q := pageQuery(p.Page, p.Size)
	q.Set("sortBy", p.SortBy)
	q.Set("sortDirection", p.SortDirection)
	return q
}

func pageQuery(page, size int) url.Values {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// ListProducts returns one page of products.
func (c *Client) ListProducts(ctx context.Context, params ListParams) (inventory.Page[inventory.Product], error) {
	var page inventory.Page[inventory.Product]
	err := c.Request(ctx, http.MethodGet, "/products", RequestOptions{Query: params.values()}, &page)
	return page, err
}

// GetProduct fetches one product by identifier.
func (c *Client) GetProduct(ctx context.Context, id int64) (inventory.Product, error) {
	var product inventory.Product
	err := c.Request(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), RequestOptions{Route: "/products/{id}"}, &product)
	return product, err
}

// GetProductBySKU fetches one product by SKU.
func (c *Client) GetProductBySKU(ctx context.Context, sku string) (inventory.Product, error) {
	var product inventory.Product
	err := c.Request(ctx, http.MethodGet, "/products/sku/"+url.PathEscape(sku), RequestOptions{Route: "/products/sku/{sku}"}, &product)
	return product, err
}

// SearchProducts runs a backend full-text search.
func (c *Client) SearchProducts(ctx context.Context, query string, page, size int) (inventory.Page[inventory.Product], error) {
	q := pageQuery(page, size)
	q.Set("query", query)
	var result inventory.Page[inventory.Product]
	err := c.Request(ctx, http.MethodGet, "/products/search", RequestOptions{Query: q}, &result)
	return result, err
}

// ProductsByCategory lists products in category.
func (c *Client) ProductsByCategory(ctx context.Context, category string, page, size int) (inventory.Page[inventory.Product], error) {
	var result inventory.Page[inventory.Product]
	err := c.Request(ctx, http.MethodGet, "/products/category/"+url.PathEscape(category), RequestOptions{
		Query: pageQuery(page, size),
		Route: "/products/category/{category}",
	}, &result)
	return result, err
}

// ProductsByStatus lists products with the given stock status.
func (c *Client) ProductsByStatus(ctx context.Context, status inventory.ProductStatus, page, size int) (inventory.Page[inventory.Product], error) {
	var result inventory.Page[inventory.Product]
	err := c.Request(ctx, http.MethodGet, "/products/status/"+url.PathEscape(string(status)), RequestOptions{
		Query: pageQuery(page, size),
		Route: "/products/status/{status}",
	}, &result)
	return result, err
}

// LowStock lists at most limit products under their minimum level.
func (c *Client) LowStock(ctx context.Context, limit int) ([]inventory.Product, error) {
	if limit <= 0 {
		limit = DefaultLowStockLimit
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var products []inventory.Product
	err := c.Request(ctx, http.MethodGet, "/products/low-stock", RequestOptions{Query: q}, &products)
	return products, err
}

// ProductStats fetches catalog statistics.
func (c *Client) ProductStats(ctx context.Context) (inventory.ProductStats, error) {
	var stats inventory.ProductStats
	err := c.Request(ctx, http.MethodGet, "/products/stats", RequestOptions{}, &stats)
	return stats, err
}

// Categories lists distinct product categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.Request(ctx, http.MethodGet, "/products/categories", RequestOptions{}, &categories)
	return categories, err
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, input inventory.ProductInput) (inventory.Product, error) {
	var product inventory.Product
	err := c.Request(ctx, http.MethodPost, "/products", RequestOptions{Body: input}, &product)
	return product, err
}

// UpdateProduct replaces a product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, input inventory.ProductInput) (inventory.Product, error) {
	var product inventory.Product
	err := c.Request(ctx, http.MethodPut, "/products/"+strconv.FormatInt(id, 10), RequestOptions{Body: input, Route: "/products/{id}"}, &product)
	return product, err
}

// UpdateStock sets the stock quantity of a product.
func (c *Client) UpdateStock(ctx context.Context, id int64, quantity int) (inventory.Product, error) {
	var product inventory.Product
	err := c.Request(ctx, http.MethodPatch, "/products/"+strconv.FormatInt(id, 10)+"/stock", RequestOptions{
		Body:  map[string]int{"quantity": quantity},
		Route: "/products/{id}/stock",
	}, &product)
	return product, err
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.Request(ctx, http.MethodDelete, "/products/"+strconv.FormatInt(id, 10), RequestOptions{Route: "/products/{id}"}, nil)
}

// BulkDelete removes every listed product and returns how many went.
func (c *Client) BulkDelete(ctx context.Context, ids []int64) (int, error) {
	if ids == nil {
		ids = []int64{}
	}
	var deleted int
	err := c.Request(ctx, http.MethodDelete, "/products/bulk", RequestOptions{Body: ids}, &deleted)
	return deleted, err
}

// RefreshCache asks the backend to drop its product caches.
func (c *Client) RefreshCache(ctx context.Context) error {
	return c.Request(ctx, http.MethodPost, "/products/cache/refresh", RequestOptions{}, nil)
}
