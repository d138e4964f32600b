package price

import (
	"github.com/shopspring/decimal"

	"github.com/sig-0/pricecast/registry"
)

// InRange reports whether v lies within the category's inclusive plausible range
func InRange(v decimal.Decimal, c registry.Category) bool {
	return v.GreaterThanOrEqual(c.Min) && v.LessThanOrEqual(c.Max)
}

// Plausible reports whether the candidate string parses into a value
// within the category's plausible range. The candidate is taken as
// already being in the category unit
func Plausible(s string, c registry.Category) bool {
	v, err := Parse(s)
	if err != nil {
		return false
	}

	return InRange(v, c)
}
