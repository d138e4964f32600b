// Package extract locates candidate price strings in raw source responses.
//
// Extraction is a pure function over the response body. Malformed documents,
// missing keys and unmatched patterns all yield no candidates; the caller is
// expected to treat that as a normal outcome and move on to the next source.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sig-0/pricecast/price"
	"github.com/sig-0/pricecast/registry"
)

// Change returns the 24h change percentage the source reports next to
// its price, if it has a change path and the document holds a number there
func Change(body []byte, src registry.Source) (decimal.Decimal, bool) {
	if src.Kind != registry.KindJSON || src.ChangePath == "" {
		return decimal.Zero, false
	}

	node, ok := lookupJSON(body, src.ChangePath)
	if !ok {
		return decimal.Zero, false
	}

	var text string

	switch t := node.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
	default:
		return decimal.Zero, false
	}

	// Changes are signed, unlike prices
	v, err := decimal.NewFromString(price.NormalizeDigits(text))
	if err != nil {
		return decimal.Zero, false
	}

	return v, true
}

// Candidates returns every candidate numeric string the source's
// extraction rule finds in body, in document order
func Candidates(body []byte, src registry.Source) []string {
	if len(body) == 0 {
		return nil
	}

	switch src.Kind {
	case registry.KindJSON:
		return fromJSON(body, src.Path)
	case registry.KindHTML:
		return fromHTML(body, src)
	default:
		return nil
	}
}
