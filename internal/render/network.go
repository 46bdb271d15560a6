package render

import (
	"strconv"

	"github.com/stockdesk/stockdesk/internal/network"
)

// ConnectionColumns heads the network connection table.
var ConnectionColumns = []string{"From", "To", "Transactions", "Total Value", "Avg Value"}

// Connections renders the network edge listing.
func Connections(conns []network.Connection) Table {
	if len(conns) == 0 {
		return Placeholder(ConnectionColumns, "No connections found")
	}
	rows := make([]Row, 0, len(conns))
	for _, c := range conns {
		rows = append(rows, Row{
			ID: int64(c.Rank),
			Cells: []Cell{
				{Text: c.From},
				{Text: c.To},
				{Text: strconv.Itoa(c.Count)},
				{Text: Money(c.Total)},
				{Text: Money(c.Average)},
			},
		})
	}
	return Table{Columns: ConnectionColumns, Rows: rows}
}
