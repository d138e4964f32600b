package registry

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

//go:embed defaults.toml
var defaultRegistry []byte

// file is the TOML representation of the registry
type file struct {
	Categories []fileCategory `toml:"category"`
}

type fileCategory struct {
	ID        string       `toml:"id"`
	Name      string       `toml:"name"`
	Emoji     string       `toml:"emoji"`
	Group     string       `toml:"group"`
	Unit      string       `toml:"unit"`
	MinorUnit string       `toml:"minor_unit"`
	Min       string       `toml:"min"`
	Max       string       `toml:"max"`
	Sources   []fileSource `toml:"source"`
	Divisor   int64        `toml:"divisor"`
	Precision int          `toml:"precision"`
}

type fileSource struct {
	Name       string `toml:"name"`
	Kind       string `toml:"kind"`
	URL        string `toml:"url"`
	Path       string `toml:"path"`
	ChangePath string `toml:"change_path"`
	Selector   string `toml:"selector"`
	Label      string `toml:"label"`
	Pattern    string `toml:"pattern"`
	Unit       string `toml:"unit"`
	Timeout    string `toml:"timeout"`
	Digits     int    `toml:"digits"`
}

// Default returns the built-in registry
func Default() (*Registry, error) {
	return Parse(defaultRegistry)
}

// DefaultTOML returns the raw built-in registry document
func DefaultTOML() []byte {
	return append([]byte(nil), defaultRegistry...)
}

// Read reads and validates the registry at the given path
func Read(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read registry: %w", err)
	}

	return Parse(content)
}

// Parse parses and validates a TOML registry document
func Parse(content []byte) (*Registry, error) {
	var f file

	if err := toml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("unable to parse registry: %w", err)
	}

	categories := make([]Category, 0, len(f.Categories))

	for _, fc := range f.Categories {
		c, err := fc.toCategory()
		if err != nil {
			return nil, fmt.Errorf("invalid category %q: %w", fc.ID, err)
		}

		categories = append(categories, c)
	}

	return New(categories)
}

func (fc fileCategory) toCategory() (Category, error) {
	minValue, err := decimal.NewFromString(strings.TrimSpace(fc.Min))
	if err != nil {
		return Category{}, fmt.Errorf("%w: min %q", errInvalidRange, fc.Min)
	}

	maxValue, err := decimal.NewFromString(strings.TrimSpace(fc.Max))
	if err != nil {
		return Category{}, fmt.Errorf("%w: max %q", errInvalidRange, fc.Max)
	}

	if fc.Precision < 0 || fc.Precision > maxPrecision {
		return Category{}, fmt.Errorf("%w: %d", errInvalidPrecision, fc.Precision)
	}

	divisor := fc.Divisor
	if divisor == 0 {
		divisor = 1
	}

	c := Category{
		ID:        strings.TrimSpace(fc.ID),
		Name:      fc.Name,
		Emoji:     fc.Emoji,
		Group:     Group(strings.ToLower(fc.Group)),
		Unit:      Unit(strings.ToLower(fc.Unit)),
		MinorUnit: Unit(strings.ToLower(fc.MinorUnit)),
		Min:       minValue,
		Max:       maxValue,
		Divisor:   divisor,
		Precision: int32(fc.Precision), //nolint:gosec // range checked above
		Sources:   make([]Source, 0, len(fc.Sources)),
	}

	for _, fs := range fc.Sources {
		s := Source{
			Name:       fs.Name,
			Kind:       Kind(strings.ToLower(fs.Kind)),
			URL:        fs.URL,
			Path:       fs.Path,
			ChangePath: fs.ChangePath,
			Selector:   fs.Selector,
			Label:      fs.Label,
			Pattern:    fs.Pattern,
			Unit:       Unit(strings.ToLower(fs.Unit)),
			Digits:     fs.Digits,
		}

		// Sources without a unit tag report in the canonical unit
		if s.Unit == "" {
			s.Unit = c.Unit
		}

		if s.Name == "" {
			s.Name = s.URL
		}

		if fs.Timeout != "" {
			timeout, err := time.ParseDuration(fs.Timeout)
			if err != nil {
				return Category{}, fmt.Errorf("invalid timeout for source %q: %w", s.Name, err)
			}

			s.Timeout = timeout
		}

		c.Sources = append(c.Sources, s)
	}

	return c, nil
}
