package scrape

import "testing"

func TestPlanOne(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantJournal  string
		wantStrategy string
	}{
		{"not https", "http://nature.com/articles/1", JournalInvalidURL, StrategySkip},
		{"doi", "https://doi.org/10.1038/s41586-021-00001-1", JournalDOI, StrategyDOI},
		{"nature bare", "https://nature.com/articles/1", "NAT", StrategyHTMLSimple},
		{"nature www", "https://www.nature.com/articles/1", "NAT", StrategyHTMLSimple},
		{"rsc", "https://pubs.rsc.org/en/content/articlelanding/1", "RSC", StrategyHTMLSimple},
		{"unregistered domain", "https://example.com/paper", JournalUnknown, StrategyHTMLSimple},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planOne(tt.url)
			if got.Journal != tt.wantJournal {
				t.Errorf("journal = %q, want %q", got.Journal, tt.wantJournal)
			}
			if got.Strategy != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", got.Strategy, tt.wantStrategy)
			}
			if got.Method != ScrapeMethodMap[tt.wantStrategy] {
				t.Errorf("method = %q, want %q", got.Method, ScrapeMethodMap[tt.wantStrategy])
			}
		})
	}
}

func TestPlanLongestPrefixWins(t *testing.T) {
	// www.nature.com is registered separately from nature.com; both should
	// resolve to the same journal/strategy regardless of which prefix matched.
	www := planOne("https://www.nature.com/articles/abc")
	bare := planOne("https://nature.com/articles/abc")
	if www.Journal != bare.Journal || www.Strategy != bare.Strategy {
		t.Fatalf("expected matching outcomes, got %+v and %+v", www, bare)
	}

	// With overlapping registered prefixes, the longer one wins even when
	// the shorter one is registered first.
	saved := DomainScrapeMap
	defer func() { DomainScrapeMap = saved }()
	DomainScrapeMap = []domainEntry{
		{"pubs.rsc", JournalUnknown, StrategySkip},
		{"pubs.rsc.org", "RSC", StrategyHTMLSimple},
	}
	got := planOne("https://pubs.rsc.org/en/content/articlelanding/1")
	if got.Journal != "RSC" || got.Strategy != StrategyHTMLSimple {
		t.Fatalf("longest prefix did not win: got %+v", got)
	}
}

func TestPlan(t *testing.T) {
	urls := []string{
		"https://doi.org/10.1/x",
		"ftp://not-https.example",
	}
	out := Plan(urls)
	if len(out) != len(urls) {
		t.Fatalf("got %d entries, want %d", len(out), len(urls))
	}
	if out[0].Journal != JournalDOI {
		t.Errorf("entry 0 journal = %q, want %q", out[0].Journal, JournalDOI)
	}
	if out[1].Strategy != StrategySkip {
		t.Errorf("entry 1 strategy = %q, want %q", out[1].Strategy, StrategySkip)
	}
}
