package render

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Price formats a unit price as "$12.50" without grouping.
func Price(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

// Money formats an amount with thousands grouping and two decimals.
func Money(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return printer.Sprintf("$%.2f", f)
}

// MoneyWhole formats an amount with grouping and no decimals.
func MoneyWhole(v decimal.Decimal) string {
	f, _ := v.Round(0).Float64()
	return printer.Sprintf("$%.0f", f)
}

// Count formats an integer with thousands grouping.
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}

// OneDecimal formats v with a single decimal place.
func OneDecimal(v float64) string {
	return printer.Sprintf("%.1f", v)
}
