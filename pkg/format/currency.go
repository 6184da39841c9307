// Package format renders monetary amounts for suggestion text and printers.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// CurrencyWithSymbol returns amount prefixed by symbol with thousands separators (e.g., "-$1,234.56").
func CurrencyWithSymbol(symbol string, amount float64) string {
	formatted := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}
