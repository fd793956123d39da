// Package core holds the ledger domain types and the parsing rules applied to raw
// user input before anything reaches a store.
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input to a non-negative decimal.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. Empty,
// non-numeric and negative input is rejected.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("12,34") -> 12.34, nil
//   ParseAmount("abc")   -> 0, ErrInvalidAmount
//   ParseAmount("1e400") -> 0, ErrInvalidAmount
//   ParseAmount("-1")    -> 0, ErrNegativeAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",") > 1 || (strings.Contains(s, ",") && strings.Contains(s, ".")) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !IsStorableAmount(d) {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// IsStorableAmount reports whether d survives conversion to a float64 column.
func IsStorableAmount(d decimal.Decimal) bool {
	f := d.InexactFloat64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// FormatAmount renders an amount with two decimals for display and export.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
