package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sig-0/pricecast/price"
)

// fromJSON resolves the dotted key path in the JSON document.
// Numeric path segments index into arrays (ex. "data.0.price")
func fromJSON(body []byte, path string) []string {
	node, ok := lookupJSON(body, path)
	if !ok {
		return nil
	}

	leaf, ok := numericLeaf(node)
	if !ok {
		return nil
	}

	return []string{leaf}
}

// lookupJSON returns the node at the dotted key path
func lookupJSON(body []byte, path string) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}

	node := doc

	for _, key := range strings.Split(path, ".") {
		next, ok := descend(node, key)
		if !ok {
			return nil, false
		}

		node = next
	}

	return node, true
}

func descend(node any, key string) (any, bool) {
	switch t := node.(type) {
	case map[string]any:
		v, ok := t[key]

		return v, ok
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(t) {
			return nil, false
		}

		return t[idx], true
	default:
		return nil, false
	}
}

func numericLeaf(node any) (string, bool) {
	switch t := node.(type) {
	case json.Number:
		return t.String(), true
	case string:
		s := strings.TrimSpace(t)
		if _, err := price.Parse(s); err != nil {
			return "", false
		}

		return s, true
	default:
		return "", false
	}
}
