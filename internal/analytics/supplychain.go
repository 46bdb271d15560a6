package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// SupplierSummary is the header of the suppliers page.
type SupplierSummary struct {
	Total         int     `json:"total"`
	Active        int     `json:"active"`
	AverageRating float64 `json:"averageRating"`
	Partnerships  int     `json:"partnerships"`
}

// SummariseSuppliers counts suppliers and the distinct directed trading pairs
// seen in txs.
func SummariseSuppliers(suppliers []inventory.Supplier, txs []inventory.Transaction) SupplierSummary {
	out := SupplierSummary{Total: len(suppliers)}
	ratings := decimal.Zero
	for _, s := range suppliers {
		if s.Status == inventory.SupplierActive {
			out.Active++
		}
		ratings = ratings.Add(decimal.NewFromFloat(s.Rating))
	}
	if len(suppliers) > 0 {
		// Rounded half up on the exact sum.
		out.AverageRating = ratings.Div(decimal.NewFromInt(int64(len(suppliers)))).Round(1).InexactFloat64()
	}
	pairs := make(map[string]struct{}, len(txs))
	for _, t := range txs {
		pairs[fmt.Sprintf("%d-%d", t.FromSupplierID, t.ToSupplierID)] = struct{}{}
	}
	out.Partnerships = len(pairs)
	return out
}

// TransactionSummary is the header of the transactions page.
type TransactionSummary struct {
	Count      int             `json:"count"`
	TotalValue decimal.Decimal `json:"totalValue"`
	Pending    int             `json:"pending"`
	InTransit  int             `json:"inTransit"`
}

// SummariseTransactions totals txs and counts the open ones.
func SummariseTransactions(txs []inventory.Transaction) TransactionSummary {
	out := TransactionSummary{Count: len(txs), TotalValue: decimal.Zero}
	for _, t := range txs {
		out.TotalValue = out.TotalValue.Add(t.TotalAmount)
		switch t.Status {
		case inventory.TxPending:
			out.Pending++
		case inventory.TxInTransit:
			out.InTransit++
		}
	}
	return out
}
