package jobs

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/store"
)

// ScrapeJobSnapshot is a read-only view of one scrape_jobs row.
type ScrapeJobSnapshot struct {
	Label              string
	Description        string
	Log                string
	DownloadDirectory  string
	ZipFile            string
	Date               string
	Status             Status
	Step               int
	Successes          int
	Fails              int
	NoOfPublications   int
	Parsed             bool
}

func scrapeJobFromRow(r store.Row) ScrapeJobSnapshot {
	return ScrapeJobSnapshot{
		Label:             rowString(r, "label"),
		Description:       rowString(r, "description"),
		Log:               rowString(r, "log"),
		DownloadDirectory: rowString(r, "download_directory"),
		ZipFile:           rowString(r, "zip_file"),
		Date:              rowString(r, "date"),
		Status:            Status(rowString(r, "job_status")),
		Step:              rowInt(r, "job_step"),
		Successes:         rowInt(r, "job_successes"),
		Fails:             rowInt(r, "job_fails"),
		NoOfPublications:  rowInt(r, "no_of_publications"),
		Parsed:            rowTriState(r, "job_parsed").Bool(),
	}
}

// ScrapeJobHandle is a write-mode binding to one scrape_jobs row: every
// setter both updates the backing row and fails with store.ErrNotFound if
// the row has since been deleted out from under it.
type ScrapeJobHandle struct {
	store *store.Store
	label string
}

// NewScrapeJob inserts a new scrape_jobs row in status I and returns a
// write handle to it. label must not already exist.
func NewScrapeJob(ctx context.Context, st *store.Store, label, description, date, downloadDirectory, zipFile, logPath string, noOfPublications int) (*ScrapeJobHandle, error) {
	exists, err := st.Exists(ctx, store.TableScrapeJobs, store.Row{"label": label})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: scrape job %q already exists", store.ErrInvariant, label)
	}

	err = st.AddEntry(ctx, store.TableScrapeJobs, store.Row{
		"label":               label,
		"description":         description,
		"log":                 logPath,
		"download_directory":  downloadDirectory,
		"zip_file":            zipFile,
		"date":                date,
		"job_status":          string(StatusInitialized),
		"job_step":            0,
		"job_successes":       0,
		"job_fails":           0,
		"no_of_publications":  noOfPublications,
		"job_parsed":          string(False),
	})
	if err != nil {
		return nil, err
	}
	return &ScrapeJobHandle{store: st, label: label}, nil
}

// LoadScrapeJob returns a write handle to an existing scrape job.
func LoadScrapeJob(ctx context.Context, st *store.Store, label string) (*ScrapeJobHandle, error) {
	exists, err := st.Exists(ctx, store.TableScrapeJobs, store.Row{"label": label})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: scrape job %q", store.ErrNotFound, label)
	}
	return &ScrapeJobHandle{store: st, label: label}, nil
}

func (h *ScrapeJobHandle) Label() string { return h.label }

// Snapshot reads the current row state. Reading never requires write mode.
func (h *ScrapeJobHandle) Snapshot(ctx context.Context) (ScrapeJobSnapshot, error) {
	row, err := h.store.GetByKey(ctx, store.TableScrapeJobs, store.Row{"label": h.label})
	if err != nil {
		return ScrapeJobSnapshot{}, err
	}
	return scrapeJobFromRow(row), nil
}

func ReadScrapeJob(ctx context.Context, st *store.Store, label string) (*ScrapeJobSnapshot, error) {
	row, err := st.GetByKey(ctx, store.TableScrapeJobs, store.Row{"label": label})
	if err != nil {
		if err == store.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	snap := scrapeJobFromRow(row)
	return &snap, nil
}

func (h *ScrapeJobHandle) SetStatus(ctx context.Context, s Status) error {
	return setJobColumn(ctx, h.store, store.TableScrapeJobs, h.label, "job_status", string(s))
}

func (h *ScrapeJobHandle) SetStep(ctx context.Context, step int) error {
	return setJobColumn(ctx, h.store, store.TableScrapeJobs, h.label, "job_step", step)
}

func (h *ScrapeJobHandle) SetSuccesses(ctx context.Context, n int) error {
	return setJobColumn(ctx, h.store, store.TableScrapeJobs, h.label, "job_successes", n)
}

func (h *ScrapeJobHandle) SetFails(ctx context.Context, n int) error {
	return setJobColumn(ctx, h.store, store.TableScrapeJobs, h.label, "job_fails", n)
}

func (h *ScrapeJobHandle) SetZipFile(ctx context.Context, path string) error {
	return setJobColumn(ctx, h.store, store.TableScrapeJobs, h.label, "zip_file", path)
}

func (h *ScrapeJobHandle) SetParsed(ctx context.Context, parsed bool) error {
	return setJobColumn(ctx, h.store, store.TableScrapeJobs, h.label, "job_parsed", string(BoolToTriState(parsed)))
}

// Delete removes the job row and, via ON DELETE CASCADE, every one of its
// scrape actions.
func (h *ScrapeJobHandle) Delete(ctx context.Context) error {
	return h.store.DeleteEntry(ctx, store.TableScrapeJobs, store.Row{"label": h.label})
}

// ListScrapeJobLabelsByStatus returns every scrape job label matching status.
func ListScrapeJobLabelsByStatus(ctx context.Context, st *store.Store, status Status) ([]string, error) {
	rows, err := st.SearchPredicates(ctx, store.TableScrapeJobs, store.And, store.Predicate{Column: "job_status", Value: string(status)})
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = rowString(r, "label")
	}
	return labels, nil
}
