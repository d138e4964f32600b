package registry

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group is the report section a category belongs to
type Group string

const (
	GroupCurrency   Group = "currency"
	GroupGold       Group = "gold"
	GroupCoin       Group = "coin"
	GroupStablecoin Group = "stablecoin"
	GroupCrypto     Group = "crypto"
)

func (g Group) String() string {
	return string(g)
}

// Valid reports whether the group maps to a report section
func (g Group) Valid() bool {
	switch g {
	case GroupCurrency, GroupGold, GroupCoin, GroupStablecoin, GroupCrypto:
		return true
	default:
		return false
	}
}

// Unit is a unit a price can be expressed in
type Unit string

const (
	UnitToman Unit = "toman"
	UnitRial  Unit = "rial"
	UnitUSD   Unit = "usd"
)

func (u Unit) String() string {
	return string(u)
}

// Kind is the fetch method of a source
type Kind string

const (
	KindJSON Kind = "json"
	KindHTML Kind = "html"
)

func (k Kind) String() string {
	return string(k)
}

// Category is a single kind of market price that gets resolved
type Category struct {
	// Min and Max are the inclusive plausible bounds, in Unit
	Min decimal.Decimal
	Max decimal.Decimal

	ID    string
	Name  string
	Emoji string
	Group Group

	// Unit is the canonical display unit
	Unit Unit

	// MinorUnit is the optional subdivision of Unit (rial for toman).
	// Values tagged with MinorUnit are divided by Divisor
	MinorUnit Unit

	// Sources are the ordered candidate providers, most reliable first
	Sources []Source

	Divisor   int64
	Precision int32
}

// DivisorDecimal returns the minor-to-major divisor as a decimal
func (c Category) DivisorDecimal() decimal.Decimal {
	if c.Divisor <= 1 {
		return decimal.NewFromInt(1)
	}

	return decimal.NewFromInt(c.Divisor)
}

// Source is one candidate provider for a category
type Source struct {
	Name string
	Kind Kind
	URL  string

	// Path is the dotted key path for JSON sources (ex. "bitcoin.usd")
	Path string

	// ChangePath is the optional dotted key path of the 24h change
	// percentage, for JSON sources (ex. "bitcoin.usd_24h_change")
	ChangePath string

	// Selector is a CSS selector whose matched text holds the price
	Selector string

	// Label matches a table cell; the next sibling cell holds the price
	Label string

	// Pattern is a regular expression scanned over the page text.
	// The first capture group (or the whole match) is the candidate
	Pattern string

	// Unit is the unit the source reports values in
	Unit Unit

	// Digits enables the fallback scan for digit groups of exactly this
	// many digits (thousands separators excluded)
	Digits int

	// Timeout overrides the fetcher timeout, if set
	Timeout time.Duration
}
