package price

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sig-0/pricecast/registry"
)

// RawValue is an extracted, unvalidated candidate
type RawValue struct {
	Text     string
	Source   string
	Category string
}

// ResolvedPrice is a candidate that passed normalization and the
// plausibility filter. It is never mutated after creation
type ResolvedPrice struct {
	ResolvedAt time.Time       `json:"resolved_at"`
	Value      decimal.Decimal `json:"value"`

	// Change is the 24h change percentage, if the source reports one
	Change *decimal.Decimal `json:"change_24h,omitempty"`

	Category string        `json:"category"`
	Source   string        `json:"source"`
	Display  string        `json:"display"`
	Unit     registry.Unit `json:"unit"`
}
