// Package money parses monetary text into exact values. All downstream
// arithmetic happens on integer minor units (cents); floats never appear.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts monetary text into an exact decimal. Currency symbols,
// commas, and whitespace are stripped first. Blank input is zero.
func Parse(text string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(text))

	if cleaned == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid money value %q", text)
	}
	return d, nil
}

// ToCents scales a decimal amount to integer minor units, truncating
// anything beyond two decimal places.
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}

// ParseCents parses monetary text directly to minor units.
func ParseCents(text string) (int64, error) {
	d, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return ToCents(d), nil
}

// FormatCents renders minor units as a dollar string like "$12.34" or
// "-$0.50", for human-readable messages.
func FormatCents(cents int64) string {
	d := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
