package render

import (
	"strconv"

	"github.com/stockdesk/stockdesk/internal/inventory"
)

// SupplierColumns heads the supplier table.
var SupplierColumns = []string{"Code", "Name", "Type", "Location", "Contact", "Rating", "Status"}

// TransactionColumns heads the transaction table.
var TransactionColumns = []string{"Number", "From", "To", "Product", "Quantity", "Total", "Status", "Date"}

// Suppliers renders the supplier directory.
func Suppliers(suppliers []inventory.Supplier) Table {
	if len(suppliers) == 0 {
		return Placeholder(SupplierColumns, "No suppliers found")
	}
	rows := make([]Row, 0, len(suppliers))
	for _, s := range suppliers {
		badge := SupplierBadge(s.Status)
		rows = append(rows, Row{
			ID: s.ID,
			Cells: []Cell{
				{Text: s.Code},
				{Text: s.Name},
				{Text: string(s.Type), Class: "type-badge"},
				{Text: s.City + ", " + s.Country},
				{Text: s.Email, Title: s.Phone},
				{Text: OneDecimal(s.Rating)},
				{Text: badge.Label, Class: "status-badge " + badge.Class},
			},
		})
	}
	return Table{Columns: SupplierColumns, Rows: rows}
}

// Transactions renders supply-chain transactions, resolving supplier names.
func Transactions(txs []inventory.Transaction, suppliers []inventory.Supplier) Table {
	if len(txs) == 0 {
		return Placeholder(TransactionColumns, "No transactions found")
	}
	names := make(map[int64]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}
	lookup := func(id int64) string {
		if name, ok := names[id]; ok {
			return name
		}
		return "Unknown"
	}
	rows := make([]Row, 0, len(txs))
	for _, tx := range txs {
		badge := TransactionBadge(tx.Status)
		date := ""
		if !tx.Date.IsZero() {
			date = tx.Date.Format("Jan 2, 2006")
		}
		rows = append(rows, Row{
			ID: tx.ID,
			Cells: []Cell{
				{Text: tx.Number},
				{Text: lookup(tx.FromSupplierID)},
				{Text: lookup(tx.ToSupplierID)},
				{Text: "Product #" + strconv.FormatInt(tx.ProductID, 10)},
				{Text: Count(int64(tx.Quantity))},
				{Text: Money(tx.TotalAmount)},
				{Text: badge.Label, Class: "status-badge " + badge.Class},
				{Text: date},
			},
		})
	}
	return Table{Columns: TransactionColumns, Rows: rows}
}
