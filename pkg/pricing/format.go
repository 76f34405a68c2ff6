package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol is appended to formatted prices.
const CurrencySymbol = "₫"

// FormatVND rounds amount to the nearest dong (halves round up) and groups
// thousands the Vietnamese way, e.g. 1234.5 becomes "1.235".
func FormatVND(amount float64) string {
	rounded := int64(math.Floor(amount + 0.5))
	return message.NewPrinter(language.Vietnamese).Sprintf("%d", rounded)
}

// FormatPrice is FormatVND followed by the currency symbol.
func FormatPrice(amount float64) string {
	return FormatVND(amount) + " " + CurrencySymbol
}
