package render

import (
	"strings"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// Badge is a coloured status label.
type Badge struct {
	Class string
	Label string
}

var productBadges = map[inventory.ProductStatus]Badge{
	inventory.StatusInStock:    {Class: "in-stock", Label: "In Stock"},
	inventory.StatusLowStock:   {Class: "low-stock", Label: "Low Stock"},
	inventory.StatusOutOfStock: {Class: "out-of-stock", Label: "Out of Stock"},
}

// ProductBadge maps a product status to its badge. Unknown values render as in stock.
func ProductBadge(status inventory.ProductStatus) Badge {
	if b, ok := productBadges[status]; ok {
		return b
	}
	return productBadges[inventory.StatusInStock]
}

var transactionClasses = map[inventory.TransactionStatus]string{
	inventory.TxDelivered: "in-stock",
	inventory.TxConfirmed: "in-stock",
	inventory.TxInTransit: "low-stock",
	inventory.TxPending:   "out-of-stock",
}

// TransactionBadge maps a transaction status to its badge.
func TransactionBadge(status inventory.TransactionStatus) Badge {
	class, ok := transactionClasses[status]
	if !ok {
		class = "out-of-stock"
	}
	return Badge{Class: class, Label: strings.ReplaceAll(string(status), "_", " ")}
}

// SupplierBadge maps a supplier status to its badge.
func SupplierBadge(status inventory.SupplierStatus) Badge {
	if status == inventory.SupplierActive {
		return Badge{Class: "in-stock", Label: string(status)}
	}
	return Badge{Class: "out-of-stock", Label: string(status)}
}
