package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrUnknownCategory = errors.New("unknown category")

	errEmptyID          = errors.New("empty category ID")
	errDuplicateID      = errors.New("duplicate category ID")
	errEmptyRegistry    = errors.New("no categories defined")
	errNoSources        = errors.New("category has no sources")
	errInvalidRange     = errors.New("invalid plausible range")
	errInvalidDivisor   = errors.New("invalid divisor")
	errInvalidUnit      = errors.New("invalid unit")
	errInvalidGroup     = errors.New("invalid category group")
	errInvalidKind      = errors.New("invalid source kind")
	errMissingURL       = errors.New("missing source URL")
	errMissingPath      = errors.New("missing JSON key path")
	errMissingRule      = errors.New("missing HTML extraction rule")
	errInvalidPattern   = errors.New("invalid extraction pattern")
	errInvalidChange    = errors.New("change path is only supported by JSON sources")
	errInvalidPrecision = errors.New("invalid precision")
)

// maxPrecision is the largest number of display decimals
const maxPrecision = 8

// Registry holds the ordered sources for every supported category.
// It is read-only after construction
type Registry struct {
	byID       map[string]int
	categories []Category
}

// New creates a new registry from the given categories, after validating them.
// Category order is kept as the report order
func New(categories []Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, errEmptyRegistry
	}

	r := &Registry{
		byID:       make(map[string]int, len(categories)),
		categories: make([]Category, 0, len(categories)),
	}

	for _, c := range categories {
		if err := ValidateCategory(c); err != nil {
			return nil, fmt.Errorf("invalid category %q: %w", c.ID, err)
		}

		if _, exists := r.byID[c.ID]; exists {
			return nil, fmt.Errorf("%w: %s", errDuplicateID, c.ID)
		}

		c.Sources = append([]Source(nil), c.Sources...)

		r.byID[c.ID] = len(r.categories)
		r.categories = append(r.categories, c)
	}

	return r, nil
}

// Categories returns all categories, in declaration order
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)

	return out
}

// Category returns the category with the given ID
func (r *Registry) Category(id string) (Category, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Category{}, false
	}

	return r.categories[idx], true
}

// SourcesFor returns the ordered sources of the given category
func (r *Registry) SourcesFor(id string) ([]Source, error) {
	c, ok := r.Category(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}

	return append([]Source(nil), c.Sources...), nil
}

// Filter returns a registry narrowed down to the given category IDs.
// Declaration order is preserved, regardless of the order of ids
func (r *Registry) Filter(ids []string) (*Registry, error) {
	if len(ids) == 0 {
		return r, nil
	}

	want := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		if _, ok := r.byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
		}

		want[id] = struct{}{}
	}

	selected := make([]Category, 0, len(want))

	for _, c := range r.categories {
		if _, ok := want[c.ID]; ok {
			selected = append(selected, c)
		}
	}

	return New(selected)
}

// ValidateCategory validates a single category and its sources
func ValidateCategory(c Category) error {
	if strings.TrimSpace(c.ID) == "" {
		return errEmptyID
	}

	if c.Unit == "" {
		return errInvalidUnit
	}

	if !c.Group.Valid() {
		return fmt.Errorf("%w: %q", errInvalidGroup, c.Group)
	}

	if c.Min.IsNegative() || c.Min.GreaterThan(c.Max) {
		return fmt.Errorf("%w: [%s, %s]", errInvalidRange, c.Min, c.Max)
	}

	if c.Divisor < 1 {
		return fmt.Errorf("%w: %d", errInvalidDivisor, c.Divisor)
	}

	if c.Divisor > 1 && c.MinorUnit == "" {
		return fmt.Errorf("%w: divisor %d without a minor unit", errInvalidDivisor, c.Divisor)
	}

	if c.Precision < 0 || c.Precision > maxPrecision {
		return fmt.Errorf("%w: %d", errInvalidPrecision, c.Precision)
	}

	if len(c.Sources) == 0 {
		return errNoSources
	}

	for i, s := range c.Sources {
		if err := validateSource(c, s); err != nil {
			return fmt.Errorf("source #%d (%s): %w", i, s.Name, err)
		}
	}

	return nil
}

func validateSource(c Category, s Source) error {
	if strings.TrimSpace(s.URL) == "" {
		return errMissingURL
	}

	if s.Unit != c.Unit && (c.MinorUnit == "" || s.Unit != c.MinorUnit) {
		return fmt.Errorf("%w: %q (category uses %q)", errInvalidUnit, s.Unit, c.Unit)
	}

	switch s.Kind {
	case KindJSON:
		if strings.TrimSpace(s.Path) == "" {
			return errMissingPath
		}
	case KindHTML:
		if s.Selector == "" && s.Label == "" && s.Pattern == "" && s.Digits <= 0 {
			return errMissingRule
		}

		if s.Pattern != "" {
			if _, err := regexp.Compile(s.Pattern); err != nil {
				return fmt.Errorf("%w: %w", errInvalidPattern, err)
			}
		}

		if s.ChangePath != "" {
			return errInvalidChange
		}
	default:
		return fmt.Errorf("%w: %q", errInvalidKind, s.Kind)
	}

	return nil
}
