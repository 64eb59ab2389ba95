package jobs

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/store"
)

type CommitJobSnapshot struct {
	Label            string
	Description      string
	Log              string
	Mode             CommitMode
	Date             string
	Status           Status
	Successes        int
	Fails            int
	NoOfPublications int
}

func commitJobFromRow(r store.Row) CommitJobSnapshot {
	return CommitJobSnapshot{
		Label:            rowString(r, "label"),
		Description:      rowString(r, "description"),
		Log:              rowString(r, "log"),
		Mode:             CommitMode(rowString(r, "mode")),
		Date:             rowString(r, "date"),
		Status:           Status(rowString(r, "job_status")),
		Successes:        rowInt(r, "job_successes"),
		Fails:            rowInt(r, "job_fails"),
		NoOfPublications: rowInt(r, "no_of_publications"),
	}
}

type CommitJobHandle struct {
	store *store.Store
	label string
}

func NewCommitJob(ctx context.Context, st *store.Store, label, description, date string, mode CommitMode, logPath string, noOfPublications int) (*CommitJobHandle, error) {
	exists, err := st.Exists(ctx, store.TableCommitJobs, store.Row{"label": label})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: commit job %q already exists", store.ErrInvariant, label)
	}
	err = st.AddEntry(ctx, store.TableCommitJobs, store.Row{
		"label":               label,
		"description":         description,
		"log":                 logPath,
		"mode":                string(mode),
		"date":                date,
		"job_status":          string(StatusInitialized),
		"job_successes":       0,
		"job_fails":           0,
		"no_of_publications":  noOfPublications,
	})
	if err != nil {
		return nil, err
	}
	return &CommitJobHandle{store: st, label: label}, nil
}

func LoadCommitJob(ctx context.Context, st *store.Store, label string) (*CommitJobHandle, error) {
	exists, err := st.Exists(ctx, store.TableCommitJobs, store.Row{"label": label})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: commit job %q", store.ErrNotFound, label)
	}
	return &CommitJobHandle{store: st, label: label}, nil
}

func (h *CommitJobHandle) Label() string { return h.label }

func (h *CommitJobHandle) Snapshot(ctx context.Context) (CommitJobSnapshot, error) {
	row, err := h.store.GetByKey(ctx, store.TableCommitJobs, store.Row{"label": h.label})
	if err != nil {
		return CommitJobSnapshot{}, err
	}
	return commitJobFromRow(row), nil
}

func (h *CommitJobHandle) SetStatus(ctx context.Context, s Status) error {
	return setJobColumn(ctx, h.store, store.TableCommitJobs, h.label, "job_status", string(s))
}

func (h *CommitJobHandle) SetSuccesses(ctx context.Context, n int) error {
	return setJobColumn(ctx, h.store, store.TableCommitJobs, h.label, "job_successes", n)
}

func (h *CommitJobHandle) SetFails(ctx context.Context, n int) error {
	return setJobColumn(ctx, h.store, store.TableCommitJobs, h.label, "job_fails", n)
}

func (h *CommitJobHandle) Delete(ctx context.Context) error {
	return h.store.DeleteEntry(ctx, store.TableCommitJobs, store.Row{"label": h.label})
}
