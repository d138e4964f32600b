package types

import (
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// PriceEntry is a single resolved category price
type PriceEntry struct {
	ResolvedAt time.Time       `json:"resolved_at"`
	Value      decimal.Decimal `json:"value"`

	// Change is the 24h change percentage, if reported
	Change *decimal.Decimal `json:"change_24h,omitempty"`

	Name    string `json:"name"`
	Group   string `json:"group"`
	Unit    string `json:"unit"`
	Source  string `json:"source"`
	Display string `json:"display"`
}

// Snapshot is the set of prices resolved in a single cycle
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	// Prices are keyed by category ID
	Prices map[string]PriceEntry `json:"prices"`

	ID string `json:"id"`

	// Unavailable lists the category IDs that did not resolve
	Unavailable []string `json:"unavailable"`
}

// Validate checks the snapshot can be stored
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrInvalidSnapshot
	}

	if s.ID == "" || s.Timestamp.IsZero() {
		return ErrInvalidSnapshot
	}

	return nil
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cp := *s
	cp.Prices = maps.Clone(s.Prices)
	cp.Unavailable = slices.Clone(s.Unavailable)

	for id, entry := range cp.Prices {
		if entry.Change != nil {
			change := *entry.Change
			entry.Change = &change
			cp.Prices[id] = entry
		}
	}

	return &cp
}
