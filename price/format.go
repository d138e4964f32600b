package price

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders v with a fixed number of decimals and comma-grouped
// thousands, ex. 96000 -> "96,000" and 67123.4 -> "67,123.40"
func Format(v decimal.Decimal, precision int32) string {
	s := v.StringFixed(precision)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder

	b.Grow(len(s) + len(intPart)/3 + 1)
	b.WriteString(sign)

	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}

	b.WriteString(intPart[:rem])

	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}

	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	return b.String()
}
