package price

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotNumeric = errors.New("not a numeric value")

// digitMap maps Persian and Arabic-Indic digits to ASCII
var digitMap = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// isGroupSeparator reports whether r is a digit-grouping separator
func isGroupSeparator(r rune) bool {
	switch r {
	case ',', '\u066c', '\u060c', ' ', '\u00a0', '\u202f', '\u2009':
		return true
	default:
		return false
	}
}

// NormalizeDigits rewrites Persian / Arabic-Indic digits and the Arabic
// decimal separator into their ASCII forms
func NormalizeDigits(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if ascii, ok := digitMap[r]; ok {
			b.WriteRune(ascii)

			continue
		}

		if r == '٫' {
			b.WriteByte('.')

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Parse parses a candidate numeric string, after removing
// digit-grouping separators. Only plain unsigned decimals are accepted
func Parse(s string) (decimal.Decimal, error) {
	s = NormalizeDigits(strings.TrimSpace(s))

	var (
		b      strings.Builder
		digits int
		dots   int
	)

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++

			b.WriteRune(r)
		case r == '.':
			dots++

			b.WriteRune(r)
		case isGroupSeparator(r):
			// dropped
		default:
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
		}
	}

	if digits == 0 || dots > 1 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}

	v, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}

	return v, nil
}
