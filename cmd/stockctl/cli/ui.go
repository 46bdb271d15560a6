package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/stockdesk/stockdesk/internal/render"
)

// Terminal colours.
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Banner prints the command heading.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint("stockdesk"), Subtle.Sprint(subtitle))
}

// PrintTable writes a rendered table as aligned text. Columns without cells
// (row actions) are dropped.
func PrintTable(w io.Writer, t render.Table) {
	if len(t.Rows) == 1 && t.Rows[0].Placeholder {
		printer := Subtle
		if t.Rows[0].Error {
			printer = Bad
		}
		fmt.Fprintf(w, "  %s\n", printer.Sprint(t.Rows[0].Message))
		return
	}
	cols := 0
	for _, row := range t.Rows {
		if len(row.Cells) > cols {
			cols = len(row.Cells)
		}
	}
	if cols > len(t.Columns) {
		cols = len(t.Columns)
	}
	widths := make([]int, cols)
	for i := 0; i < cols; i++ {
		widths[i] = utf8.RuneCountInString(t.Columns[i])
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row.Cells); i++ {
			if n := utf8.RuneCountInString(row.Cells[i].Text); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var header, sep strings.Builder
	header.WriteString("  ")
	sep.WriteString("  ")
	for i := 0; i < cols; i++ {
		header.WriteString(pad(t.Columns[i], widths[i]) + "  ")
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	fmt.Fprintln(w, Subtle.Sprint(strings.TrimRight(header.String(), " ")))
	fmt.Fprintln(w, Subtle.Sprint(strings.TrimRight(sep.String(), " ")))

	for _, row := range t.Rows {
		var line strings.Builder
		line.WriteString("  ")
		for i := 0; i < cols; i++ {
			var cell render.Cell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			line.WriteString(badgeColor(cell.Class).Sprint(pad(cell.Text, widths[i])) + "  ")
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func badgeColor(class string) *color.Color {
	switch {
	case strings.Contains(class, "out-of-stock"):
		return Bad
	case strings.Contains(class, "low-stock"):
		return Warn
	case strings.Contains(class, "in-stock"):
		return Good
	default:
		return color.New(color.Reset)
	}
}
