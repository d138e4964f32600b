package resolve

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sig-0/pricecast/price"
	"github.com/sig-0/pricecast/registry"
)

var (
	// ErrSourceUnreachable is a network-level failure for a single source
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrExtractionMiss means the response held no candidate values
	ErrExtractionMiss = errors.New("no candidates extracted")

	// ErrImplausibleValue means no candidate passed the plausibility filter
	ErrImplausibleValue = errors.New("no plausible candidate")

	// ErrCategoryUnavailable means every source of a category was exhausted
	ErrCategoryUnavailable = errors.New("category unavailable")
)

// Status is the tagged outcome of a single source attempt
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusImplausible
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusImplausible:
		return "implausible"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Attempt records what happened when a single source was tried
type Attempt struct {
	Err        error
	Source     string
	Candidates []string

	// Value is the normalized winning value, set only when Found
	Value decimal.Decimal

	Status  Status
	Elapsed time.Duration
}

// Resolution is the outcome of resolving a single category
type Resolution struct {
	// Err wraps ErrCategoryUnavailable when Price is nil
	Err error

	// Price is the first plausible value found, or nil
	Price *price.ResolvedPrice

	Attempts []Attempt
	Category registry.Category
}

// Available returns true if the category resolved to a price
func (r Resolution) Available() bool {
	return r.Price != nil
}
