// Package htmlutil holds goquery-based DOM extraction helpers shared by
// the concrete metadata parsers.
package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CreateDocument parses an HTML string into a goquery.Document.
func CreateDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// ExtractText tries selectors in priority order and returns the first
// match's trimmed text.
func ExtractText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// ExtractAll collects deduplicated text from every element matching the
// first selector (in order) that yields any matches.
func ExtractAll(doc *goquery.Document, selectors []string) []string {
	seen := make(map[string]bool)
	var results []string

	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text != "" && !seen[text] {
				seen[text] = true
				results = append(results, text)
			}
		})
		if len(results) > 0 {
			break
		}
	}
	return results
}

// ExtractAttr returns the first non-empty attr value across selectors.
func ExtractAttr(doc *goquery.Document, selectors []string, attr string) string {
	for _, selector := range selectors {
		if v, exists := doc.Find(selector).Attr(attr); exists && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
