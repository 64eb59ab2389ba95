package parse

import (
	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/parse/dateutil"
	"github.com/ovcarj/appeer/internal/parse/normalize"
)

// Normalizer holds the publisher/journal registries and similarity
// thresholds used to turn a parser's RawMetadata into the closed,
// normalized field set a ParseAction persists.
type Normalizer struct {
	Publishers           normalize.Index
	Journals             map[string]normalize.Index // keyed by publisher code
	PublisherSimilarity  float64
	JournalSimilarity    float64
}

// Normalize maps raw extracted fields to the normalized metadata record.
// normalized_publisher/normalized_journal fall back to the raw value when
// no registry entry clears the similarity threshold, matching the source
// parser base class's "best effort" normalization.
func (n *Normalizer) Normalize(publisherCode string, raw RawMetadata) jobs.ParsedMetadata {
	normalizedPublisher := raw.Publisher
	if n.Publishers != nil {
		if match, ok := normalize.Best(n.Publishers, raw.Publisher, n.PublisherSimilarity); ok {
			normalizedPublisher = match
		}
	}

	normalizedJournal := raw.Journal
	if idx, ok := n.Journals[publisherCode]; ok {
		if match, ok := normalize.Best(idx, raw.Journal, n.JournalSimilarity); ok {
			normalizedJournal = match
		}
	}

	received, _ := dateutil.NormalizeFreeText(raw.Received)
	accepted, _ := dateutil.NormalizeFreeText(raw.Accepted)
	published, _ := dateutil.NormalizeFreeText(raw.Published)

	return jobs.ParsedMetadata{
		DOI:                 raw.DOI,
		Publisher:           raw.Publisher,
		Journal:             raw.Journal,
		Title:               raw.Title,
		PublicationType:     raw.PublicationType,
		Affiliations:        JoinAffiliations(raw.Affiliations),
		Received:            raw.Received,
		Accepted:            raw.Accepted,
		Published:           raw.Published,
		NormalizedPublisher: normalizedPublisher,
		NormalizedJournal:   normalizedJournal,
		NormalizedReceived:  received,
		NormalizedAccepted:  accepted,
		NormalizedPublished: published,
	}
}
