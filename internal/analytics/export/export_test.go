package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/analytics"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

func readAll(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteChartCSV(t *testing.T) {
	chart := analytics.ChartSpec{
		Labels: []string{"Mon", "Tue"},
		Series: []analytics.SeriesSpec{
			{Label: "Revenue ($)", Values: []float64{12500, 19300}},
			{Label: "Orders", Values: []float64{145, 232.5}},
		},
	}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteChartCSV(buf, chart))
	records := readAll(t, buf)
	assert.Equal(t, [][]string{
		{"Label", "Revenue ($)", "Orders"},
		{"Mon", "12500", "145"},
		{"Tue", "19300", "232.5"},
	}, records)
}

func TestWriteTransactionsCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	txs := inventory.SampleTransactions()[:1]
	require.NoError(t, WriteTransactionsCSV(buf, txs, inventory.SampleSuppliers()[:1]))
	records := readAll(t, buf)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"TXN-2024-001", "TechCorp Manufacturing", "Unknown", "1", "500", "85.00", "42500.00", "DELIVERED", "2024-01-15"}, records[1])
}
