// Package currency formats minor-unit amounts for display on receipts.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

const symbol = "R"

// Format renders the magnitude of a minor-unit amount,
// e.g. 123456789 → "R 1 234 567.89".
func Format(minor int64) string {
	s := decimal.New(minor, -2).Abs().StringFixed(2)
	dot := strings.IndexByte(s, '.')
	return symbol + " " + group(s[:dot]) + s[dot:]
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
