package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sig-0/pricecast/price"
	"github.com/sig-0/pricecast/registry"
)

const cellSelector = "td, th"

// digitGroupRegex matches a run of digits, optionally split into
// thousands groups. Digits are normalized to ASCII before matching
var digitGroupRegex = regexp.MustCompile(`[0-9]+(?:[,٬][0-9]{3})*`)

// fromHTML applies the source's HTML rules, in order: selector, label,
// pattern and digit scan. Each rule contributes its matches in document order
func fromHTML(body []byte, src registry.Source) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var candidates []string

	if src.Selector != "" {
		candidates = append(candidates, bySelector(doc, src.Selector)...)
	}

	if src.Label != "" {
		candidates = append(candidates, byLabel(doc, src.Label)...)
	}

	if src.Pattern == "" && src.Digits <= 0 {
		return candidates
	}

	text := price.NormalizeDigits(documentText(doc))

	if src.Pattern != "" {
		candidates = append(candidates, byPattern(text, src.Pattern)...)
	}

	if src.Digits > 0 {
		candidates = append(candidates, byDigitCount(text, src.Digits)...)
	}

	return candidates
}

// documentText joins the document's text nodes with a space, in document
// order, so values in adjacent cells of minified markup stay apart.
// Script and style contents are skipped
func documentText(doc *goquery.Document) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if txt := strings.TrimSpace(n.Data); txt != "" {
				parts = append(parts, txt)
			}

			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(parts, " ")
}

// bySelector returns the text of every element matching the CSS selector
func bySelector(doc *goquery.Document, selector string) []string {
	var out []string

	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if txt := cleanText(sel.Text()); txt != "" {
			out = append(out, txt)
		}
	})

	return out
}

// byLabel finds leaf table cells containing the label and returns
// the text of the cell right after each of them
func byLabel(doc *goquery.Document, label string) []string {
	var out []string

	label = cleanText(label)

	doc.Find(cellSelector).Each(func(_ int, cell *goquery.Selection) {
		if cell.Find(cellSelector).Length() > 0 {
			return // container of a nested table
		}

		if !strings.Contains(cleanText(cell.Text()), label) {
			return
		}

		if txt := cleanText(cell.NextFiltered(cellSelector).Text()); txt != "" {
			out = append(out, txt)
		}
	})

	return out
}

// byPattern scans the text with a custom regular expression
func byPattern(text, pattern string) []string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}

	var out []string

	for _, match := range re.FindAllStringSubmatch(text, -1) {
		candidate := match[0]
		if len(match) > 1 {
			candidate = match[1]
		}

		if candidate = strings.TrimSpace(candidate); candidate != "" {
			out = append(out, candidate)
		}
	}

	return out
}

// byDigitCount returns every digit group with exactly n digits,
// ex. "96,000" for n = 5
func byDigitCount(text string, n int) []string {
	var out []string

	for _, match := range digitGroupRegex.FindAllString(text, -1) {
		if countDigits(match) == n {
			out = append(out, match)
		}
	}

	return out
}

func countDigits(s string) int {
	var n int

	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}

	return n
}

// cleanText collapses whitespace runs. Zero-width non-joiners, which
// Persian pages use inconsistently in labels, count as spaces
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u200c", " ")

	return strings.Join(strings.Fields(s), " ")
}
