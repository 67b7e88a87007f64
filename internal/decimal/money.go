package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// One is the default quantity for a line without one
var One = decimal.NewFromInt(1)

var hundred = decimal.NewFromInt(100)

// Multiplier converts a whole-number percentage into a fraction: 15 -> 0.15.
// No rounding is applied.
func Multiplier(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// Present reports whether an optional amount carries a value.
// Zero counts as absent.
func Present(d decimal.Decimal) bool {
	return !d.IsZero()
}

// OrDefault returns d, or def when d is absent
func OrDefault(d, def decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return def
	}
	return d
}
