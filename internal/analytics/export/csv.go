package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/stockdesk/stockdesk/internal/analytics"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

// WriteChartCSV emits one row per label with a column per series.
func WriteChartCSV(w io.Writer, chart analytics.ChartSpec) error {
	writer := csv.NewWriter(w)
	header := make([]string, 0, len(chart.Series)+1)
	header = append(header, "Label")
	for _, s := range chart.Series {
		header = append(header, s.Label)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for i, label := range chart.Labels {
		record := make([]string, 0, len(header))
		record = append(record, label)
		for _, s := range chart.Series {
			record = append(record, formatFloat(s.Values[i]))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTransactionsCSV lists supply-chain transactions with supplier names
// resolved.
func WriteTransactionsCSV(w io.Writer, txs []inventory.Transaction, suppliers []inventory.Supplier) error {
	names := make(map[int64]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}
	name := func(id int64) string {
		if n, ok := names[id]; ok {
			return n
		}
		return "Unknown"
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Number", "From", "To", "Product", "Quantity", "Unit Price", "Total", "Status", "Date"}); err != nil {
		return err
	}
	for _, t := range txs {
		if err := writer.Write([]string{
			t.Number,
			name(t.FromSupplierID),
			name(t.ToSupplierID),
			strconv.FormatInt(t.ProductID, 10),
			strconv.Itoa(t.Quantity),
			t.UnitPrice.StringFixed(2),
			t.TotalAmount.StringFixed(2),
			string(t.Status),
			t.Date.Format("2006-01-02"),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
