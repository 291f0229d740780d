// Package format renders stored listing values for display.
package format

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// priceShape matches a plain decimal with at most two fraction digits,
// after thousands separators have been stripped.
var priceShape = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

var currencyPrefixes = map[string]string{
	"USD": "US$",
	"CAD": "CA$",
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Price formats a stored price string for display. Prices are kept as text
// in the store, so legacy records may hold values that never parse; those
// are passed through verbatim behind the currency code rather than dropped.
func Price(price, currency string) string {
	raw := strings.TrimSpace(price)
	if raw == "" {
		return ""
	}

	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}

	sanitized := strings.ReplaceAll(raw, ",", "")
	if !priceShape.MatchString(sanitized) {
		return code + " " + raw
	}

	amount, err := strconv.ParseFloat(sanitized, 64)
	if err != nil {
		return code + " " + raw
	}

	formatted := printer.Sprintf("%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	prefix, ok := currencyPrefixes[code]
	if !ok {
		prefix = code + " "
	}
	return prefix + formatted
}

// ValidPrice reports whether a price string is well formed for storage.
// The empty string is allowed; a listing may be priced later.
func ValidPrice(price string) bool {
	raw := strings.TrimSpace(price)
	if raw == "" {
		return true
	}
	return priceShape.MatchString(strings.ReplaceAll(raw, ",", ""))
}
