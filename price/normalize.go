package price

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sig-0/pricecast/registry"
)

var ErrUnitMismatch = errors.New("unit mismatch")

// Normalize converts a raw value reported in sourceUnit into the
// category's canonical unit. Values in the minor unit are integer-divided
// by the category divisor. The result is truncated to the category precision
func Normalize(raw decimal.Decimal, sourceUnit registry.Unit, c registry.Category) (decimal.Decimal, error) {
	switch {
	case sourceUnit == c.Unit:
		return raw.Truncate(c.Precision), nil
	case c.MinorUnit != "" && sourceUnit == c.MinorUnit:
		return raw.Div(c.DivisorDecimal()).Truncate(c.Precision), nil
	default:
		return decimal.Zero, fmt.Errorf(
			"%w: source reports %q, category %q uses %q",
			ErrUnitMismatch,
			sourceUnit,
			c.ID,
			c.Unit,
		)
	}
}
