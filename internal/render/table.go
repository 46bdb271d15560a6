// Package render turns backend records into table view models for templates.
package render

// Placeholder messages.
const (
	EmptyProducts  = "No products found"
	FailedProducts = "Failed to load products. Please try again."
)

// Cell is one table cell. A non-empty Class renders the text as a badge.
type Cell struct {
	Text  string
	Class string
	Title string
}

// Action is a per-row command bound to the record identifier.
type Action struct {
	Name   string
	Label  string
	Icon   string
	Href   string
	Method string
}

// Row is a table row. Placeholder rows carry only Message and Colspan.
type Row struct {
	ID          int64
	Cells       []Cell
	Actions     []Action
	Placeholder bool
	Error       bool
	Message     string
	Colspan     int
}

// Table is a rendered table body plus its header.
type Table struct {
	Columns []string
	Rows    []Row
}

// Empty reports whether the table holds only a placeholder.
func (t Table) Empty() bool {
	return len(t.Rows) == 1 && t.Rows[0].Placeholder
}

// Placeholder returns a table whose single row spans every column.
func Placeholder(columns []string, message string) Table {
	return Table{
		Columns: columns,
		Rows:    []Row{{Placeholder: true, Message: message, Colspan: len(columns)}},
	}
}

// Failed returns a table with a single error row spanning every column.
func Failed(columns []string, message string) Table {
	t := Placeholder(columns, message)
	t.Rows[0].Error = true
	return t
}
