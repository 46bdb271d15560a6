package inventory

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus enumerates stock states reported by the backend.
type ProductStatus string

const (
	// StatusInStock means stock is above the minimum level.
	StatusInStock ProductStatus = "IN_STOCK"
	// StatusLowStock means stock is below the minimum level.
	StatusLowStock ProductStatus = "LOW_STOCK"
	// StatusOutOfStock means nothing is left.
	StatusOutOfStock ProductStatus = "OUT_OF_STOCK"
)

// DefaultMinStockLevel mirrors the backend default for new products.
const DefaultMinStockLevel = 10

// Product is a catalog item as returned by the inventory API.
type Product struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	MinStockLevel int             `json:"minStockLevel"`
	Status        ProductStatus   `json:"status"`
	CreatedAt     Timestamp       `json:"createdAt"`
	UpdatedAt     Timestamp       `json:"updatedAt"`
}

// EffectiveStatus returns the backend status or derives one when it is missing.
func (p Product) EffectiveStatus() ProductStatus {
	if p.Status != "" {
		return p.Status
	}
	return DeriveStatus(p.StockQuantity, p.MinStockLevel)
}

// Value returns price times stock on hand.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
}

// ProductInput is the body for create and update calls.
type ProductInput struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	MinStockLevel int             `json:"minStockLevel"`
	Description   string          `json:"description"`
}

// MarshalJSON writes Price as a bare JSON number, the form the backend binds.
func (in ProductInput) MarshalJSON() ([]byte, error) {
	type plain ProductInput
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(in), Price: json.Number(in.Price.String())})
}

// ProductStats summarises the catalog.
type ProductStats struct {
	TotalProducts       int64              `json:"totalProducts"`
	InStockProducts     int64              `json:"inStockProducts"`
	LowStockCount       int64              `json:"lowStockCount"`
	OutOfStockCount     int64              `json:"outOfStockCount"`
	CategoriesCount     int64              `json:"categoriesCount"`
	TotalInventoryValue decimal.Decimal    `json:"totalInventoryValue"`
	AverageProductPrice decimal.Decimal    `json:"averageProductPrice"`
	TotalQuantity       int64              `json:"totalQuantity"`
	ProductsByCategory  map[string]int64   `json:"productsByCategory,omitempty"`
	ValueByCategory     map[string]float64 `json:"valueByCategory,omitempty"`
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Range returns the 1-based first and last row numbers shown for the page.
func (p Page[T]) Range() (start, end int64) {
	if p.TotalElements == 0 {
		return 0, 0
	}
	if p.Size <= 0 {
		return 1, p.TotalElements
	}
	n := p.Number
	if last := p.LastNumber(); n > last {
		n = last
	}
	start = int64(n)*int64(p.Size) + 1
	end = int64(n+1) * int64(p.Size)
	if end > p.TotalElements {
		end = p.TotalElements
	}
	return start, end
}

// LastNumber is the zero-based index of the final page.
func (p Page[T]) LastNumber() int {
	if p.TotalPages > 0 {
		return p.TotalPages - 1
	}
	if p.Size <= 0 || p.TotalElements == 0 {
		return 0
	}
	return int((p.TotalElements - 1) / int64(p.Size))
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 0 }

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	if p.TotalPages > 0 {
		return p.Number+1 < p.TotalPages
	}
	return int64(p.Number+1)*int64(p.Size) < p.TotalElements
}

// SupplierType classifies trading partners.
type SupplierType string

const (
	SupplierManufacturer SupplierType = "MANUFACTURER"
	SupplierDistributor  SupplierType = "DISTRIBUTOR"
	SupplierWholesaler   SupplierType = "WHOLESALER"
	SupplierRetailer     SupplierType = "RETAILER"
	SupplierDropshipper  SupplierType = "DROPSHIPPER"
	SupplierAgent        SupplierType = "AGENT"
)

// SupplierStatus marks whether a supplier is trading.
type SupplierStatus string

const (
	SupplierActive    SupplierStatus = "ACTIVE"
	SupplierInactive  SupplierStatus = "INACTIVE"
	SupplierSuspended SupplierStatus = "SUSPENDED"
)

// Supplier is a trading partner in the supply network.
type Supplier struct {
	ID      int64          `json:"id"`
	Code    string         `json:"supplierCode"`
	Name    string         `json:"name"`
	Type    SupplierType   `json:"supplierType"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	City    string         `json:"city"`
	Country string         `json:"country"`
	Rating  float64        `json:"rating"`
	Status  SupplierStatus `json:"status"`
}

// SupplierStats is the backend supplier summary.
type SupplierStats struct {
	TotalSuppliers        int64            `json:"totalSuppliers"`
	ActiveSuppliers       int64            `json:"activeSuppliers"`
	AverageSupplierRating float64          `json:"averageSupplierRating"`
	SuppliersByType       map[string]int64 `json:"suppliersByType,omitempty"`
}

// TransactionStatus is the lifecycle state of a supply-chain transaction.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxConfirmed TransactionStatus = "CONFIRMED"
	TxInTransit TransactionStatus = "IN_TRANSIT"
	TxDelivered TransactionStatus = "DELIVERED"
)

// Transaction moves product between two suppliers.
type Transaction struct {
	ID             int64             `json:"id"`
	Number         string            `json:"transactionNumber"`
	FromSupplierID int64             `json:"fromSupplierId"`
	ToSupplierID   int64             `json:"toSupplierId"`
	ProductID      int64             `json:"productId"`
	Quantity       int               `json:"quantity"`
	UnitPrice      decimal.Decimal   `json:"unitPrice"`
	TotalAmount    decimal.Decimal   `json:"totalAmount"`
	Type           string            `json:"transactionType"`
	Status         TransactionStatus `json:"status"`
	Date           Timestamp         `json:"transactionDate"`
}

// TotalMatches reports whether the total equals quantity times unit price.
func (t Transaction) TotalMatches() bool {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity))).Equal(t.TotalAmount)
}

const timestampLayout = "2006-01-02T15:04:05"

// Timestamp decodes the backend's zone-less local date-time format.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts the backend layout, RFC 3339 and plain dates.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02T15:04:05.999999999", time.DateOnly} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			ts.Time = parsed
			return nil
		}
	}
	parsed, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return err
	}
	ts.Time = parsed
	return nil
}

// MarshalJSON writes the backend layout.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Format(timestampLayout) + `"`), nil
}
