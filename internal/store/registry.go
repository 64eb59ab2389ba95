// Package store is the registry-gated SQLite persistence layer: a static
// whitelist of table and column names backs a small parameterized query
// builder so no caller-controlled identifier ever reaches a SQL string.
package store

import "fmt"

// Table is a closed enum of the tables this package knows how to query.
type Table string

const (
	TableScrapeJobs Table = "scrape_jobs"
	TableScrapes    Table = "scrapes"
	TableParseJobs  Table = "parse_jobs"
	TableParses     Table = "parses"
	TableCommitJobs Table = "commit_jobs"
	TableCommits    Table = "commits"
	TablePub        Table = "pub"
)

// registeredColumns is the exhaustive column whitelist per table. Every
// query builder method in this package validates against it before
// building a statement; violating it is a programming error (ErrInvariant),
// never a possible outcome of untrusted input.
var registeredColumns = map[Table]map[string]bool{
	TableScrapeJobs: setOf(
		"label", "description", "log", "download_directory", "zip_file",
		"date", "job_status", "job_step", "job_successes", "job_fails",
		"no_of_publications", "job_parsed",
	),
	TableScrapes: setOf(
		"label", "action_index", "date", "url", "journal", "strategy",
		"method", "status", "success", "out_file", "parsed",
	),
	TableParseJobs: setOf(
		"label", "description", "log", "mode", "parse_directory", "date",
		"job_status", "job_successes", "job_fails", "no_of_publications",
		"job_committed",
	),
	TableParses: setOf(
		"label", "action_index", "date", "scrape_label", "scrape_action_index",
		"input_file", "doi", "publisher", "journal", "title",
		"publication_type", "affiliations", "received", "accepted",
		"published", "parser", "status", "success", "committed",
	),
	TableCommitJobs: setOf(
		"label", "description", "log", "mode", "date", "job_status",
		"job_successes", "job_fails", "no_of_publications",
	),
	TableCommits: setOf(
		"label", "action_index", "date", "parse_label", "parse_action_index",
		"doi", "publisher", "journal", "title", "publication_type",
		"affiliations", "received", "accepted", "published", "status",
		"success", "passed", "duplicate",
	),
	TablePub: setOf(
		"doi", "received", "accepted", "published", "duration", "publisher",
		"journal", "title", "affiliations", "normalized_publisher",
		"normalized_journal", "normalized_received", "normalized_accepted",
		"normalized_published",
	),
}

func setOf(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

// CheckColumn validates that column belongs to table's registered set.
func CheckColumn(table Table, column string) error {
	cols, ok := registeredColumns[table]
	if !ok {
		return fmt.Errorf("%w: unregistered table %q", ErrInvariant, table)
	}
	if !cols[column] {
		return fmt.Errorf("%w: unregistered column %q on table %q", ErrInvariant, column, table)
	}
	return nil
}

// SanityCheck validates an entire set of columns at once, used before
// building multi-column INSERT/UPDATE statements.
func SanityCheck(table Table, columns []string) error {
	for _, c := range columns {
		if err := CheckColumn(table, c); err != nil {
			return err
		}
	}
	return nil
}
