package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// The backend does not expose supply-chain transactions yet, so the supplier
// and network pages run on this fixed dataset.

// SampleSuppliers returns the demo supplier network.
func SampleSuppliers() []Supplier {
	return []Supplier{
		{ID: 1, Code: "SUP-001", Name: "TechCorp Manufacturing", Type: SupplierManufacturer, Email: "contact@techcorp.com", Phone: "+1-555-0101", Rating: 4.8, Status: SupplierActive, City: "San Francisco", Country: "USA"},
		{ID: 2, Code: "SUP-002", Name: "Global Distributors Inc", Type: SupplierDistributor, Email: "sales@globaldist.com", Phone: "+1-555-0102", Rating: 4.5, Status: SupplierActive, City: "New York", Country: "USA"},
		{ID: 3, Code: "SUP-003", Name: "Electronics Wholesale Ltd", Type: SupplierWholesaler, Email: "info@elecwholesale.com", Phone: "+1-555-0103", Rating: 4.3, Status: SupplierActive, City: "Chicago", Country: "USA"},
		{ID: 4, Code: "SUP-004", Name: "Prime Retail Chain", Type: SupplierRetailer, Email: "orders@primeretail.com", Phone: "+1-555-0104", Rating: 4.6, Status: SupplierActive, City: "Los Angeles", Country: "USA"},
		{ID: 5, Code: "SUP-005", Name: "FastShip Dropshippers", Type: SupplierDropshipper, Email: "support@fastship.com", Phone: "+1-555-0105", Rating: 4.2, Status: SupplierActive, City: "Seattle", Country: "USA"},
		{ID: 6, Code: "SUP-006", Name: "AsiaConnect Manufacturers", Type: SupplierManufacturer, Email: "export@asiaconnect.com", Phone: "+86-555-0106", Rating: 4.7, Status: SupplierActive, City: "Shanghai", Country: "China"},
		{ID: 7, Code: "SUP-007", Name: "Euro Distribution Network", Type: SupplierDistributor, Email: "contact@eurodist.com", Phone: "+49-555-0107", Rating: 4.4, Status: SupplierActive, City: "Berlin", Country: "Germany"},
		{ID: 8, Code: "SUP-008", Name: "Pacific Trading Co", Type: SupplierAgent, Email: "agent@pacifictrade.com", Phone: "+81-555-0108", Rating: 4.1, Status: SupplierActive, City: "Tokyo", Country: "Japan"},
	}
}

// SampleTransactions returns the demo transactions between SampleSuppliers.
func SampleTransactions() []Transaction {
	rows := []struct {
		from, to, product int64
		qty               int
		unit, total       int64
		status            TransactionStatus
		day               string
	}{
		{1, 2, 1, 500, 85, 42500, TxDelivered, "2024-01-15"},
		{2, 3, 1, 300, 89, 26700, TxDelivered, "2024-01-18"},
		{3, 4, 1, 200, 92, 18400, TxInTransit, "2024-01-20"},
		{6, 2, 2, 1000, 230, 230000, TxDelivered, "2024-01-10"},
		{2, 7, 2, 400, 245, 98000, TxConfirmed, "2024-01-22"},
		{1, 5, 3, 800, 95, 76000, TxDelivered, "2024-01-12"},
		{6, 1, 4, 2000, 40, 80000, TxDelivered, "2024-01-08"},
		{7, 4, 5, 600, 48, 28800, TxPending, "2024-01-25"},
		{1, 3, 6, 350, 58, 20300, TxDelivered, "2024-01-14"},
		{8, 2, 7, 450, 380, 171000, TxInTransit, "2024-01-23"},
	}
	out := make([]Transaction, 0, len(rows))
	for i, row := range rows {
		day, _ := time.Parse(time.DateOnly, row.day)
		out = append(out, Transaction{
			ID:             int64(i + 1),
			Number:         fmt.Sprintf("TXN-2024-%03d", i+1),
			FromSupplierID: row.from,
			ToSupplierID:   row.to,
			ProductID:      row.product,
			Quantity:       row.qty,
			UnitPrice:      decimal.NewFromInt(row.unit),
			TotalAmount:    decimal.NewFromInt(row.total),
			Type:           "SALE",
			Status:         row.status,
			Date:           Timestamp{Time: day},
		})
	}
	return out
}

