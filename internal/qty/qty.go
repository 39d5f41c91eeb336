// Package qty handles quantity parsing and display.
//
// Quantities travel as strings (form fields and JSON both carry user text).
// Storage and display go through shopspring/decimal so we never round-trip
// user input through floats.
package qty

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse returns the decimal value of a user-entered quantity.
// Empty strings and unparseable input both report ok=false; callers treat
// that as "no value" rather than an error (matching the save semantics:
// bad quantities are stored as NULL, not rejected).
func Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Format renders a stored quantity for display: quantized to 3 decimal
// places (half-up), integers shown without a fraction, empty for no value.
func Format(s string) string {
	d, ok := Parse(s)
	if !ok {
		return ""
	}
	return FormatDecimal(d)
}

// FormatDecimal applies the display rule to an already-parsed value.
func FormatDecimal(d decimal.Decimal) string {
	q := d.Round(3)
	if q.IsInteger() {
		return q.Truncate(0).String()
	}
	return q.String()
}
