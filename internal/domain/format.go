package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount as two-decimal text with thousands grouping,
// e.g. 1234.5 -> "1,234.50".
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}

	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	b.WriteByte('.')
	b.WriteString(fracPart)

	return b.String()
}
