// Package normalize matches free-text publisher and journal names against
// a registry of known variants using a string-similarity ratio, the same
// approach the parse engine's base parser type applies to every concrete
// parser's normalized_publisher/normalized_journal fields.
package normalize

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Entry is one registry record: a canonical name plus known spelling
// variants to match incoming free text against.
type Entry struct {
	NormalizedName string   `json:"normalized_name"`
	NameVariants   []string `json:"name_variants"`
}

// Index is a registry of keyed Entries, as loaded from publishers_index.json
// or a per-publisher <PUB>_journals.json file.
type Index map[string]Entry

// LoadIndex reads a registry JSON file of the shape
// {"key": {"normalized_name": "...", "name_variants": [...]}}.
func LoadIndex(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Ratio computes a Levenshtein-based similarity ratio in [0, 1]: 1 means
// identical, 0 means totally dissimilar.
func Ratio(a, b string) float64 {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// Best finds the registry entry whose normalized name or any variant is
// most similar to raw, returning its normalized name when the best ratio
// meets threshold.
func Best(idx Index, raw string, threshold float64) (string, bool) {
	bestRatio := -1.0
	bestName := ""
	for _, entry := range idx {
		candidates := append([]string{entry.NormalizedName}, entry.NameVariants...)
		for _, c := range candidates {
			r := Ratio(raw, c)
			if r > bestRatio {
				bestRatio = r
				bestName = entry.NormalizedName
			}
		}
	}
	if bestRatio >= threshold {
		return bestName, true
	}
	return "", false
}
