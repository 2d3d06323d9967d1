// Package money holds the fixed-point helpers used for every price the
// platform shows or stores.
//
// Invariants:
//   - Amounts are decimal.Decimal values, never binary floating point.
//   - Anything returned to a caller is rounded to Places fractional digits,
//     half away from zero.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept on monetary amounts.
const Places int32 = 2

// One is the identity exchange rate.
var One = decimal.RequireFromString("1.00")

// Round quantizes an amount to two fractional digits (round-half-up).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Multiply returns amount*rate rounded to two fractional digits.
func Multiply(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate))
}

// String renders an amount with exactly two fractional digits.
func String(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// RateString renders an exchange rate. Rates with at most two fractional
// digits keep exactly two ("1.00", "3.75", "4000.00"); derived rates keep
// their full precision.
func RateString(d decimal.Decimal) string {
	if d.Equal(d.Round(Places)) {
		return d.StringFixed(Places)
	}
	return d.String()
}

// Parse reads a non-negative decimal amount.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// Format renders an amount with its display symbol, e.g. "S/ 260.00".
func Format(d decimal.Decimal, symbol string) string {
	if symbol == "" {
		return String(d)
	}
	return symbol + " " + String(d)
}
