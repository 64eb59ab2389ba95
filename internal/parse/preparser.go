package parse

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/ovcarj/appeer/internal/htmlutil"
)

// Preparser narrows a registry down to candidate parsers for one input
// file and determines which, if any, actually matches it. The input file
// is read once; its goquery document is memoized so repeated candidate
// checks against the same backend never re-parse.
type Preparser struct {
	filePath   string
	publishers map[string]bool
	journals   map[string]bool
	dataTypes  map[string]bool

	rawText string
	doc     *goquery.Document
}

// NewPreparser reads filePath once. publishers/journals/dataTypes narrow
// the candidate set; empty/nil means "no filter". dataTypes defaults to
// {"txt"} when empty, matching the source's default.
func NewPreparser(filePath string, publishers, journals, dataTypes []string) (*Preparser, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read input file %s: %w", filePath, err)
	}
	if len(dataTypes) == 0 {
		dataTypes = []string{"txt"}
	}
	return &Preparser{
		filePath:   filePath,
		publishers: toSet(publishers),
		journals:   toSet(journals),
		dataTypes:  toSet(dataTypes),
		rawText:    string(data),
	}, nil
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func (p *Preparser) matches(set map[string]bool, value string) bool {
	return set == nil || set[value]
}

// document lazily parses the input into a goquery document, once.
func (p *Preparser) document() (*goquery.Document, error) {
	if p.doc == nil {
		doc, err := htmlutil.CreateDocument(p.rawText)
		if err != nil {
			return nil, fmt.Errorf("parse %s as HTML: %w", p.filePath, err)
		}
		p.doc = doc
	}
	return p.doc, nil
}

// DetermineParser returns the first candidate in registry order whose
// CheckPublisherJournal predicate matches, and the document it matched
// against. Returns (nil, nil, nil) when no candidate matches.
func (p *Preparser) DetermineParser(reg *Registry) (Parser, *goquery.Document, error) {
	for _, r := range reg.registrations {
		if !p.matches(p.publishers, r.PublisherCode) ||
			!p.matches(p.journals, r.JournalCode) ||
			!p.matches(p.dataTypes, r.DataType) {
			continue
		}

		factory, ok := reg.factories[r.PublisherCode]
		if !ok {
			continue
		}
		parser := factory()

		doc, err := p.document()
		if err != nil {
			return nil, nil, err
		}
		if parser.CheckPublisherJournal(doc) {
			return parser, doc, nil
		}
	}
	return nil, nil, nil
}
