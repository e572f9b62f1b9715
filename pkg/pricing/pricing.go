// Package pricing computes marked-up prices with exact decimal arithmetic.
//
// Prices and percentages cross the package boundary as decimal text. Results
// are rounded half to even at two fractional digits and always carry exactly
// two fractional digits.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits in every result.
const Places = 2

var one = decimal.NewFromInt(1)

// CalculatePrice returns basePrice * (1 + markupPercent/100) rounded to two
// places. Both inputs must be decimal text; anything else yields a *ParseError.
func CalculatePrice(basePrice, markupPercent string) (string, error) {
	base, err := ParseDecimal("base_price", basePrice)
	if err != nil {
		return "", err
	}
	markup, err := ParseDecimal("markup_percent", markupPercent)
	if err != nil {
		return "", err
	}
	return Format(Calculate(base, markup)), nil
}

// Calculate applies a percentage markup without rounding.
func Calculate(base, markupPercent decimal.Decimal) decimal.Decimal {
	return base.Mul(MarkupFactor(markupPercent))
}

// MarkupFactor converts a percentage into a multiplier, so 15 becomes 1.15.
func MarkupFactor(percent decimal.Decimal) decimal.Decimal {
	return one.Add(percent.Shift(-2))
}

// Round rounds half to even at two places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Places)
}

// Format renders d rounded half to even with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixedBank(Places)
}

// Bounds of every accepted decimal: at most MaxScale fractional digits and a
// magnitude no larger than MaxMagnitude, the range of a 96-bit decimal.
const (
	MaxScale     = 28
	MaxMagnitude = "79228162514264337593543950335"

	maxTextLength = 64
)

var maxMagnitude = decimal.RequireFromString(MaxMagnitude)

// InBounds reports whether d lies within MaxScale and MaxMagnitude. It only
// looks at the exponent and coefficient size before comparing, so it stays
// cheap for values like 1e400000000.
func InBounds(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -MaxScale || exp > MaxScale || d.Coefficient().BitLen() > 192 {
		return false
	}
	return d.Abs().LessThanOrEqual(maxMagnitude)
}

// ParseDecimal parses value as plain decimal text. Scientific notation and
// values outside InBounds are rejected. field names the input in the
// returned *ParseError.
func ParseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" || len(value) > maxTextLength || strings.TrimSpace(value) != value || strings.ContainsAny(value, "eE") {
		return decimal.Zero, &ParseError{Field: field, Value: value}
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !InBounds(d) {
		return decimal.Zero, &ParseError{Field: field, Value: value}
	}
	return d, nil
}
