// Package parse implements the metadata extraction stage: selecting a
// parser for a downloaded document by (publisher, journal, data type),
// extracting its metadata fields, and normalizing them.
package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RawMetadata is what a concrete Parser extracts straight from the
// document, before publisher/journal normalization or date normalization.
type RawMetadata struct {
	DOI             string
	Publisher       string
	Journal         string
	Title           string
	PublicationType string
	Affiliations    []string
	Received        string
	Accepted        string
	Published       string
}

// Parser is implemented once per (publisher_code, journal_code, data_type)
// triple. CheckPublisherJournal is the predicate the preparser's candidate
// search calls to find the right parser for a document; Extract runs only
// after a match.
type Parser interface {
	PublisherCode() string
	JournalCode() string
	DataType() string
	CheckPublisherJournal(doc *goquery.Document) bool
	Extract(doc *goquery.Document) RawMetadata
}

// JoinAffiliations renders the affiliation list the way the committed
// affiliations column stores it: joined with "; ".
func JoinAffiliations(affiliations []string) string {
	return strings.Join(affiliations, "; ")
}
