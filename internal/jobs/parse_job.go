package jobs

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/store"
)

type ParseJobSnapshot struct {
	Label            string
	Description      string
	Log              string
	Mode             ParseMode
	ParseDirectory   string
	Date             string
	Status           Status
	Successes        int
	Fails            int
	NoOfPublications int
	Committed        bool
}

func parseJobFromRow(r store.Row) ParseJobSnapshot {
	return ParseJobSnapshot{
		Label:            rowString(r, "label"),
		Description:      rowString(r, "description"),
		Log:              rowString(r, "log"),
		Mode:             ParseMode(rowString(r, "mode")),
		ParseDirectory:   rowString(r, "parse_directory"),
		Date:             rowString(r, "date"),
		Status:           Status(rowString(r, "job_status")),
		Successes:        rowInt(r, "job_successes"),
		Fails:            rowInt(r, "job_fails"),
		NoOfPublications: rowInt(r, "no_of_publications"),
		Committed:        rowTriState(r, "job_committed").Bool(),
	}
}

type ParseJobHandle struct {
	store *store.Store
	label string
}

func NewParseJob(ctx context.Context, st *store.Store, label, description, date string, mode ParseMode, parseDirectory, logPath string, noOfPublications int) (*ParseJobHandle, error) {
	exists, err := st.Exists(ctx, store.TableParseJobs, store.Row{"label": label})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: parse job %q already exists", store.ErrInvariant, label)
	}
	err = st.AddEntry(ctx, store.TableParseJobs, store.Row{
		"label":              label,
		"description":        description,
		"log":                logPath,
		"mode":               string(mode),
		"parse_directory":    parseDirectory,
		"date":               date,
		"job_status":         string(StatusInitialized),
		"job_successes":      0,
		"job_fails":          0,
		"no_of_publications": noOfPublications,
		"job_committed":      string(False),
	})
	if err != nil {
		return nil, err
	}
	return &ParseJobHandle{store: st, label: label}, nil
}

func LoadParseJob(ctx context.Context, st *store.Store, label string) (*ParseJobHandle, error) {
	exists, err := st.Exists(ctx, store.TableParseJobs, store.Row{"label": label})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: parse job %q", store.ErrNotFound, label)
	}
	return &ParseJobHandle{store: st, label: label}, nil
}

func (h *ParseJobHandle) Label() string { return h.label }

func (h *ParseJobHandle) Snapshot(ctx context.Context) (ParseJobSnapshot, error) {
	row, err := h.store.GetByKey(ctx, store.TableParseJobs, store.Row{"label": h.label})
	if err != nil {
		return ParseJobSnapshot{}, err
	}
	return parseJobFromRow(row), nil
}

func (h *ParseJobHandle) SetStatus(ctx context.Context, s Status) error {
	return setJobColumn(ctx, h.store, store.TableParseJobs, h.label, "job_status", string(s))
}

func (h *ParseJobHandle) SetSuccesses(ctx context.Context, n int) error {
	return setJobColumn(ctx, h.store, store.TableParseJobs, h.label, "job_successes", n)
}

func (h *ParseJobHandle) SetFails(ctx context.Context, n int) error {
	return setJobColumn(ctx, h.store, store.TableParseJobs, h.label, "job_fails", n)
}

func (h *ParseJobHandle) SetCommitted(ctx context.Context, committed bool) error {
	return setJobColumn(ctx, h.store, store.TableParseJobs, h.label, "job_committed", string(BoolToTriState(committed)))
}

func (h *ParseJobHandle) Delete(ctx context.Context) error {
	return h.store.DeleteEntry(ctx, store.TableParseJobs, store.Row{"label": h.label})
}

func ListParseJobLabelsByStatus(ctx context.Context, st *store.Store, status Status) ([]string, error) {
	rows, err := st.SearchPredicates(ctx, store.TableParseJobs, store.And, store.Predicate{Column: "job_status", Value: string(status)})
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = rowString(r, "label")
	}
	return labels, nil
}
