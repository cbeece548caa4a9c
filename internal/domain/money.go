package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary amount to two decimal places, half up.
// Rounding happens at the point a row or wire value is built, never on
// intermediate sums.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CoerceAmount parses an operator-entered amount, stripping common
// currency formatting. Negative or unparseable input is coerced to zero
// so the ledger is always in a computable state.
func CoerceAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// CoerceQuantity coerces a denomination count; negative counts become zero.
func CoerceQuantity(q int) int {
	if q < 0 {
		return 0
	}
	return q
}
