package config

import (
	"os"
	"path/filepath"
)

// Datadir resolves the persisted-state layout rooted at a data directory:
// downloads/, scrape/ (archives), scrape_logs/, parse/, parse_logs/,
// commit_logs/, db/, registries/.
type Datadir struct {
	Base string
}

func NewDatadir(base string) *Datadir {
	return &Datadir{Base: base}
}

func (d *Datadir) Downloads() string    { return filepath.Join(d.Base, "downloads") }
func (d *Datadir) ScrapeArchives() string { return filepath.Join(d.Base, "scrape") }
func (d *Datadir) ScrapeLogs() string   { return filepath.Join(d.Base, "scrape_logs") }
func (d *Datadir) Parse() string        { return filepath.Join(d.Base, "parse") }
func (d *Datadir) ParseLogs() string    { return filepath.Join(d.Base, "parse_logs") }
func (d *Datadir) CommitLogs() string   { return filepath.Join(d.Base, "commit_logs") }
func (d *Datadir) DB() string           { return filepath.Join(d.Base, "db") }
func (d *Datadir) Registries() string   { return filepath.Join(d.Base, "registries") }

func (d *Datadir) JobsDBPath() string { return filepath.Join(d.DB(), "jobs.db") }
func (d *Datadir) PubsDBPath() string { return filepath.Join(d.DB(), "pubs.db") }

// DownloadDirFor returns the per-scrape-job download directory.
func (d *Datadir) DownloadDirFor(scrapeLabel string) string {
	return filepath.Join(d.Downloads(), scrapeLabel)
}

// ZipFileFor returns the per-scrape-job archive path.
func (d *Datadir) ZipFileFor(scrapeLabel string) string {
	return filepath.Join(d.ScrapeArchives(), scrapeLabel+".zip")
}

// ScrapeLogFileFor returns the per-scrape-job log file path.
func (d *Datadir) ScrapeLogFileFor(scrapeLabel string) string {
	return filepath.Join(d.ScrapeLogs(), scrapeLabel+".log")
}

// ParseDirFor returns the per-parse-job working directory.
func (d *Datadir) ParseDirFor(parseLabel string) string {
	return filepath.Join(d.Parse(), parseLabel)
}

// ParseLogFileFor returns the per-parse-job log file path.
func (d *Datadir) ParseLogFileFor(parseLabel string) string {
	return filepath.Join(d.ParseLogs(), parseLabel+".log")
}

// CommitLogFileFor returns the per-commit-job log file path.
func (d *Datadir) CommitLogFileFor(commitLabel string) string {
	return filepath.Join(d.CommitLogs(), commitLabel+".log")
}

// CreateDirectories creates every top-level data subdirectory except
// registries/, which is only read from and is not created here.
func (d *Datadir) CreateDirectories() error {
	for _, dir := range []string{
		d.Downloads(), d.ScrapeArchives(), d.ScrapeLogs(),
		d.Parse(), d.ParseLogs(), d.CommitLogs(), d.DB(),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
