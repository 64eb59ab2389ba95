// Package parsers holds the concrete per-publisher document parsers.
package parsers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ovcarj/appeer/internal/parse"
)

// NAT parses Nature Publishing Group article pages.
type NAT struct{}

func NewNAT() *NAT { return &NAT{} }

func (p *NAT) PublisherCode() string { return "NAT" }
func (p *NAT) JournalCode() string   { return "ANY" }
func (p *NAT) DataType() string      { return "txt" }

func (p *NAT) CheckPublisherJournal(doc *goquery.Document) bool {
	generator, _ := doc.Find(`meta[name="citation_publisher"]`).Attr("content")
	if strings.Contains(strings.ToLower(generator), "nature") {
		return true
	}
	return doc.Find(`meta[name="citation_journal_title"]`).Length() > 0 &&
		strings.Contains(doc.Find("title").Text(), "| Nature")
}

func (p *NAT) Extract(doc *goquery.Document) parse.RawMetadata {
	doi := metaContent(doc, "citation_doi")
	publisher := metaContent(doc, "citation_publisher")
	if publisher == "" {
		publisher = "Springer Nature"
	}
	journal := metaContent(doc, "citation_journal_title")
	title := metaContent(doc, "citation_title")
	pubType := metaContent(doc, "citation_article_type")

	var affiliations []string
	doc.Find(`meta[name="citation_author_institution"]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok && strings.TrimSpace(v) != "" {
			affiliations = append(affiliations, strings.TrimSpace(v))
		}
	})

	received := firstNonEmpty(
		metaContent(doc, "citation_received_date"),
		doc.Find(`[data-test="submitted-date"]`).Text(),
	)
	accepted := firstNonEmpty(
		metaContent(doc, "citation_accepted_date"),
		doc.Find(`[data-test="accepted-date"]`).Text(),
	)
	published := firstNonEmpty(
		metaContent(doc, "citation_publication_date"),
		metaContent(doc, "citation_online_date"),
	)

	return parse.RawMetadata{
		DOI: doi, Publisher: publisher, Journal: journal, Title: title,
		PublicationType: pubType, Affiliations: affiliations,
		Received: received, Accepted: accepted, Published: published,
	}
}

func metaContent(doc *goquery.Document, name string) string {
	v, _ := doc.Find(`meta[name="` + name + `"]`).Attr("content")
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
