package main

import (
	"os"
	"path/filepath"

	"github.com/ovcarj/appeer/internal/parse"
	"github.com/ovcarj/appeer/internal/parse/normalize"
	"github.com/ovcarj/appeer/internal/parse/parsers"
)

// builtinFactories is the set of parsers appeer ships out of the box,
// keyed by publisher code.
func builtinFactories() map[string]parse.Factory {
	return map[string]parse.Factory{
		"NAT": func() parse.Parser { return parsers.NewNAT() },
		"RSC": func() parse.Parser { return parsers.NewRSC() },
	}
}

// loadRegistry builds the parser registry for a run: implemented_parsers.json
// under registriesDir when present, the builtin one-entry-per-parser
// registry otherwise.
func loadRegistry(registriesDir string) (*parse.Registry, error) {
	factories := builtinFactories()

	path := filepath.Join(registriesDir, "implemented_parsers.json")
	if _, err := os.Stat(path); err != nil {
		return parse.BuiltinRegistry(factories), nil
	}

	regs, err := parse.LoadImplementedParsers(path)
	if err != nil {
		return nil, err
	}
	return parse.NewRegistry(regs, factories), nil
}

// loadNormalizer builds the publisher/journal normalization registries for
// a run from registriesDir: publishers_index.json and one <PUB>_journals.json
// per builtin publisher code. A missing file yields an empty index rather
// than an error -- normalization then degenerates to passing the raw value
// through, per parse.Normalizer.Normalize.
func loadNormalizer(registriesDir string, publisherSimilarity, journalSimilarity float64) (*parse.Normalizer, error) {
	publishers, err := loadIndexOrEmpty(filepath.Join(registriesDir, "publishers_index.json"))
	if err != nil {
		return nil, err
	}

	journals := make(map[string]normalize.Index)
	for code := range builtinFactories() {
		idx, err := loadIndexOrEmpty(filepath.Join(registriesDir, code+"_journals.json"))
		if err != nil {
			return nil, err
		}
		journals[code] = idx
	}

	return &parse.Normalizer{
		Publishers:          publishers,
		Journals:            journals,
		PublisherSimilarity: publisherSimilarity,
		JournalSimilarity:   journalSimilarity,
	}, nil
}

func loadIndexOrEmpty(path string) (normalize.Index, error) {
	if _, err := os.Stat(path); err != nil {
		return normalize.Index{}, nil
	}
	return normalize.LoadIndex(path)
}
