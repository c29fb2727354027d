package utils

import (
	"github.com/shopspring/decimal"
)

// FormatPrice formats an amount as a dollar string with two decimals: "$12.50".
// Negative amounts are rendered as "-$12.50".
func FormatPrice(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatModifier formats a signed option delta for display: "+$5.00", "-$2.00".
// A zero delta yields an empty string.
func FormatModifier(delta float64) string {
	d := decimal.NewFromFloat(delta)
	switch {
	case d.IsZero():
		return ""
	case d.IsPositive():
		return "+" + FormatPrice(delta)
	default:
		return FormatPrice(delta)
	}
}
