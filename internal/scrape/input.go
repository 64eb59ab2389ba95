// Package scrape implements the acquisition stage: turning a list of
// article URLs into planned, executed, archived fetch actions.
package scrape

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// NoURLSentinel is stored in place of an input line that is neither a URL
// nor a bare DOI.
const NoURLSentinel = "no_url"

// RewriteDOI turns a bare DOI into its resolver URL, passes a URL through
// unchanged, and coerces anything else to the NoURLSentinel.
func RewriteDOI(entry string) string {
	if doiPattern.MatchString(entry) {
		return "https://doi.org/" + entry
	}
	if strings.HasPrefix(entry, "https://") {
		return entry
	}
	return NoURLSentinel
}

// jsonEntry is one element of a JSON input file.
type jsonEntry struct {
	ArticleURL string `json:"article_url"`
}

// ParseJSONInput reads a JSON array of {"article_url": "..."} objects.
func ParseJSONInput(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json input: %w", err)
	}
	var entries []jsonEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse json input: %w", err)
	}
	urls := make([]string, len(entries))
	for i, e := range entries {
		urls[i] = RewriteDOI(e.ArticleURL)
	}
	return urls, nil
}

// ParsePlaintextInput reads one URL or DOI per line. A line with more than
// one whitespace-separated token is a hard error.
func ParsePlaintextInput(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plaintext input: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if len(strings.Fields(line)) > 1 {
			return nil, fmt.Errorf("plaintext input line %d has more than one token: %q", lineNo, line)
		}
		urls = append(urls, RewriteDOI(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read plaintext input: %w", err)
	}
	return urls, nil
}

// ParseInputFile dispatches to JSON or plaintext parsing based on file
// extension.
func ParseInputFile(path string) ([]string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ParseJSONInput(path)
	}
	return ParsePlaintextInput(path)
}
