package parsers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ovcarj/appeer/internal/htmlutil"
	"github.com/ovcarj/appeer/internal/parse"
)

// RSC parses Royal Society of Chemistry article pages, which carry their
// metadata in the visible article-information panel rather than in
// citation_* meta tags.
type RSC struct{}

func NewRSC() *RSC { return &RSC{} }

func (p *RSC) PublisherCode() string { return "RSC" }
func (p *RSC) JournalCode() string   { return "ANY" }
func (p *RSC) DataType() string      { return "txt" }

func (p *RSC) CheckPublisherJournal(doc *goquery.Document) bool {
	return strings.Contains(doc.Find("title").Text(), "RSC") ||
		doc.Find(`a[href*="pubs.rsc.org"]`).Length() > 0
}

var (
	doiSelectors       = []string{`.article_info .doi a`, `meta[name="citation_doi"]`}
	titleSelectors     = []string{`h1.article-title`, `meta[name="citation_title"]`}
	journalSelectors   = []string{`.journal-name`, `meta[name="citation_journal_title"]`}
	affiliationSelectors = []string{`.author-affiliation`, `.article_info .affiliations span`}
	receivedSelectors  = []string{`.article-history .received`}
	acceptedSelectors  = []string{`.article-history .accepted`}
	publishedSelectors = []string{`.article-history .published`}
)

func (p *RSC) Extract(doc *goquery.Document) parse.RawMetadata {
	doi := htmlutil.ExtractText(doc, doiSelectors)
	if doi == "" {
		doi = htmlutil.ExtractAttr(doc, []string{`meta[name="citation_doi"]`}, "content")
	}
	title := htmlutil.ExtractText(doc, titleSelectors)
	journal := htmlutil.ExtractText(doc, journalSelectors)
	affiliations := htmlutil.ExtractAll(doc, affiliationSelectors)

	return parse.RawMetadata{
		DOI:             strings.TrimPrefix(doi, "https://doi.org/"),
		Publisher:       "Royal Society of Chemistry",
		Journal:         journal,
		Title:           title,
		PublicationType: "research-article",
		Affiliations:    affiliations,
		Received:        htmlutil.ExtractText(doc, receivedSelectors),
		Accepted:        htmlutil.ExtractText(doc, acceptedSelectors),
		Published:       htmlutil.ExtractText(doc, publishedSelectors),
	}
}
