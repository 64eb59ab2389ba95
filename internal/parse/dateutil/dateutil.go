// Package dateutil ports the regex-based "<day> <MonthName> <year>" date
// normalization the parse engine uses to turn free-text publication dates
// into ISO 8601 (YYYY-MM-DD).
package dateutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dayRe = regexp.MustCompile(`\b(0?[1-9]|1[0-9]|2[0-9]|3[0-1])(st|nd|rd|th)?\b`)
var yearRe = regexp.MustCompile(`\b[0-9]{4}\b`)

// monthNames maps every long and short month name (case folded to lower)
// to its two-digit numeric form. "May" has no distinct short form.
var monthNames = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "sept": "09", "oct": "10", "nov": "11", "dec": "12",
}

var monthNameRe = regexp.MustCompile(`(?i)\b(` + monthAlternation() + `)\b`)

func monthAlternation() string {
	names := make([]string, 0, len(monthNames))
	for name := range monthNames {
		names = append(names, name)
	}
	// Longest-first so "sept" matches before "sep" truncates it.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && len(names[j]) > len(names[j-1]); j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return strings.Join(names, "|")
}

// FindDMY locates the first month name in text (case-insensitively), the
// last day number before it and the first four-digit year after it, and
// returns them joined as "<day> <MonthName> <year>" along with ok=true.
func FindDMY(text string) (string, bool) {
	monthLoc := monthNameRe.FindStringIndex(text)
	if monthLoc == nil {
		return "", false
	}

	before := text[:monthLoc[0]]
	after := text[monthLoc[1]:]

	dayMatches := dayRe.FindAllString(before, -1)
	if len(dayMatches) == 0 {
		return "", false
	}
	day := dayMatches[len(dayMatches)-1]

	yearLoc := yearRe.FindStringIndex(after)
	if yearLoc == nil {
		return "", false
	}
	year := after[yearLoc[0]:yearLoc[1]]

	month := strings.TrimSpace(text[monthLoc[0]:monthLoc[1]])
	return fmt.Sprintf("%s %s %s", day, month, year), true
}

// Normalize converts a "<day>[suffix]? <MonthName> <year>" string (as
// returned by FindDMY) into YYYY-MM-DD, or ok=false on any malformed part.
func Normalize(dmy string) (string, bool) {
	parts := strings.Fields(dmy)
	if len(parts) != 3 {
		return "", false
	}

	dayMatch := dayRe.FindStringSubmatch(parts[0])
	if dayMatch == nil {
		return "", false
	}
	dayNum, err := strconv.Atoi(dayMatch[1])
	if err != nil || dayNum < 1 || dayNum > 31 {
		return "", false
	}

	month, ok := monthNames[strings.ToLower(parts[1])]
	if !ok {
		return "", false
	}

	if !yearRe.MatchString(parts[2]) {
		return "", false
	}

	return fmt.Sprintf("%s-%s-%02d", parts[2], month, dayNum), true
}

// NormalizeFreeText finds and normalizes the first "<day> <MonthName>
// <year>" substring in free text, returning ok=false if none is found or
// it fails to normalize.
func NormalizeFreeText(text string) (string, bool) {
	dmy, ok := FindDMY(text)
	if !ok {
		return "", false
	}
	return Normalize(dmy)
}
