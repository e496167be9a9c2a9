package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice converts a locale-formatted catalog price ("1 250,50") into a
// decimal. Grouping characters are stripped and the comma decimal separator
// is normalized; a plain dot-separated number is accepted too.
func ParsePrice(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',' || r == '.':
			b.WriteRune('.')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("price %q has no digits", s)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price %q is not valid: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("price %q is negative", s)
	}
	return d, nil
}

// FormatPrice renders an amount in the display convention of the catalog:
// two decimal places, comma separator, thousands grouped by spaces.
func FormatPrice(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, " ") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
