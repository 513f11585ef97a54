// Package format provides display formatting helpers for dashboard
// values. Models keep raw decimals; only the view layer formats.
package format

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown for any value whose source data is absent.
const Placeholder = "N/A"

var printer = message.NewPrinter(language.English)

// Pct formats a percentage to exactly 2 decimal places with a % suffix.
// e.g., -3.4567 → "-3.46%"
func Pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// Grouped formats a large amount with locale-aware thousands separators
// and no fractional digits. e.g., 12345678 → "12,345,678"
func Grouped(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// GroupedFixed formats an amount with thousands separators and the given
// number of fractional digits.
func GroupedFixed(v float64, decimals int) string {
	return printer.Sprintf("%.*f", decimals, v)
}

// Rate formats a derived exchange rate to 8 decimal places.
func Rate(d decimal.Decimal) string {
	return d.StringFixed(8)
}

// USD prefixes a dollar sign. Price cards show the raw value; larger
// aggregates pass through Grouped first.
func USD(s string) string {
	return "$" + s
}

// Coin suffixes an amount with the asset ticker.
func Coin(s, symbol string) string {
	return s + " " + symbol
}
