package jobs

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/store"
)

// CommitActionSnapshot is a read-only view of one commits row. success
// being T does not imply the row reached pub: a cleanly rejected duplicate
// is still a successful action (Passed=false, Duplicate=true).
type CommitActionSnapshot struct {
	Label             string
	ActionIndex       int
	Date              string
	ParseLabel        string
	ParseActionIndex  int
	DOI               string
	Publisher         string
	Journal           string
	Title             string
	PublicationType   string
	Affiliations      string
	Received          string
	Accepted          string
	Published         string
	Status            Status
	Success           bool
	Passed            bool
	Duplicate         bool
}

func commitActionFromRow(r store.Row) CommitActionSnapshot {
	return CommitActionSnapshot{
		Label:            rowString(r, "label"),
		ActionIndex:      rowInt(r, "action_index"),
		Date:             rowString(r, "date"),
		ParseLabel:       rowString(r, "parse_label"),
		ParseActionIndex: rowInt(r, "parse_action_index"),
		DOI:              rowString(r, "doi"),
		Publisher:        rowString(r, "publisher"),
		Journal:          rowString(r, "journal"),
		Title:            rowString(r, "title"),
		PublicationType:  rowString(r, "publication_type"),
		Affiliations:     rowString(r, "affiliations"),
		Received:         rowString(r, "received"),
		Accepted:         rowString(r, "accepted"),
		Published:        rowString(r, "published"),
		Status:           Status(rowString(r, "status")),
		Success:          rowTriState(r, "success").Bool(),
		Passed:           rowTriState(r, "passed").Bool(),
		Duplicate:        rowTriState(r, "duplicate").Bool(),
	}
}

type CommitActionHandle struct {
	store       *store.Store
	label       string
	actionIndex int
}

// NewCommitAction inserts a new commits row in status W, seeded with the
// metadata echoed from the originating parse action.
func NewCommitAction(ctx context.Context, st *store.Store, label string, index int, date, parseLabel string, parseActionIndex int, m ParsedMetadata) (*CommitActionHandle, error) {
	err := st.AddEntry(ctx, store.TableCommits, store.Row{
		"label":               label,
		"action_index":        index,
		"date":                date,
		"parse_label":         parseLabel,
		"parse_action_index":  parseActionIndex,
		"doi":                 m.DOI,
		"publisher":           m.NormalizedPublisher,
		"journal":             m.NormalizedJournal,
		"title":               m.Title,
		"publication_type":    m.PublicationType,
		"affiliations":        m.Affiliations,
		"received":            m.NormalizedReceived,
		"accepted":            m.NormalizedAccepted,
		"published":           m.NormalizedPublished,
		"status":              string(StatusWaiting),
		"success":             string(False),
		"passed":              string(False),
		"duplicate":           string(False),
	})
	if err != nil {
		return nil, err
	}
	return &CommitActionHandle{store: st, label: label, actionIndex: index}, nil
}

func LoadCommitAction(ctx context.Context, st *store.Store, label string, index int) (*CommitActionHandle, error) {
	exists, err := st.Exists(ctx, store.TableCommits, store.Row{"label": label, "action_index": index})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: commit action %s/%d", store.ErrNotFound, label, index)
	}
	return &CommitActionHandle{store: st, label: label, actionIndex: index}, nil
}

func (h *CommitActionHandle) Snapshot(ctx context.Context) (CommitActionSnapshot, error) {
	row, err := h.store.GetByKey(ctx, store.TableCommits, store.Row{"label": h.label, "action_index": h.actionIndex})
	if err != nil {
		return CommitActionSnapshot{}, err
	}
	return commitActionFromRow(row), nil
}

func (h *CommitActionHandle) SetStatus(ctx context.Context, s Status) error {
	return setActionColumn(ctx, h.store, store.TableCommits, h.label, h.actionIndex, "status", string(s))
}

func (h *CommitActionHandle) SetResult(ctx context.Context, success, passed, duplicate bool) error {
	if err := setActionColumn(ctx, h.store, store.TableCommits, h.label, h.actionIndex, "success", string(BoolToTriState(success))); err != nil {
		return err
	}
	if err := setActionColumn(ctx, h.store, store.TableCommits, h.label, h.actionIndex, "passed", string(BoolToTriState(passed))); err != nil {
		return err
	}
	return setActionColumn(ctx, h.store, store.TableCommits, h.label, h.actionIndex, "duplicate", string(BoolToTriState(duplicate)))
}

func ListCommitActions(ctx context.Context, st *store.Store, label string) ([]CommitActionSnapshot, error) {
	rows, err := st.SearchPredicates(ctx, store.TableCommits, store.And, store.Predicate{Column: "label", Value: label})
	if err != nil {
		return nil, err
	}
	out := make([]CommitActionSnapshot, len(rows))
	for i, r := range rows {
		out[i] = commitActionFromRow(r)
	}
	return out, nil
}
