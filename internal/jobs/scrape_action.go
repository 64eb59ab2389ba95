package jobs

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/store"
)

// ScrapeActionSnapshot is a read-only view of one scrapes row.
type ScrapeActionSnapshot struct {
	Label       string
	ActionIndex int
	Date        string
	URL         string
	Journal     string
	Strategy    string
	Method      string
	Status      Status
	Success     bool
	OutFile     string
	Parsed      bool
}

func scrapeActionFromRow(r store.Row) ScrapeActionSnapshot {
	return ScrapeActionSnapshot{
		Label:       rowString(r, "label"),
		ActionIndex: rowInt(r, "action_index"),
		Date:        rowString(r, "date"),
		URL:         rowString(r, "url"),
		Journal:     rowString(r, "journal"),
		Strategy:    rowString(r, "strategy"),
		Method:      rowString(r, "method"),
		Status:      Status(rowString(r, "status")),
		Success:     rowTriState(r, "success").Bool(),
		OutFile:     rowString(r, "out_file"),
		Parsed:      rowTriState(r, "parsed").Bool(),
	}
}

// ScrapeActionHandle is a write-mode binding to one scrapes row.
type ScrapeActionHandle struct {
	store       *store.Store
	label       string
	actionIndex int
}

// NewScrapeAction inserts a new scrapes row in status W.
func NewScrapeAction(ctx context.Context, st *store.Store, label string, index int, date, url, journal, strategy, method string) (*ScrapeActionHandle, error) {
	err := st.AddEntry(ctx, store.TableScrapes, store.Row{
		"label":        label,
		"action_index": index,
		"date":         date,
		"url":          url,
		"journal":      journal,
		"strategy":     strategy,
		"method":       method,
		"status":       string(StatusWaiting),
		"success":      string(False),
		"out_file":     "",
		"parsed":       string(False),
	})
	if err != nil {
		return nil, err
	}
	return &ScrapeActionHandle{store: st, label: label, actionIndex: index}, nil
}

func LoadScrapeAction(ctx context.Context, st *store.Store, label string, index int) (*ScrapeActionHandle, error) {
	exists, err := st.Exists(ctx, store.TableScrapes, store.Row{"label": label, "action_index": index})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: scrape action %s/%d", store.ErrNotFound, label, index)
	}
	return &ScrapeActionHandle{store: st, label: label, actionIndex: index}, nil
}

func (h *ScrapeActionHandle) Snapshot(ctx context.Context) (ScrapeActionSnapshot, error) {
	row, err := h.store.GetByKey(ctx, store.TableScrapes, store.Row{"label": h.label, "action_index": h.actionIndex})
	if err != nil {
		return ScrapeActionSnapshot{}, err
	}
	return scrapeActionFromRow(row), nil
}

func (h *ScrapeActionHandle) SetStatus(ctx context.Context, s Status) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "status", string(s))
}

func (h *ScrapeActionHandle) SetSuccess(ctx context.Context, ok bool) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "success", string(BoolToTriState(ok)))
}

func (h *ScrapeActionHandle) SetOutFile(ctx context.Context, path string) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "out_file", path)
}

func (h *ScrapeActionHandle) SetJournal(ctx context.Context, journal string) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "journal", journal)
}

func (h *ScrapeActionHandle) SetStrategy(ctx context.Context, strategy string) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "strategy", strategy)
}

func (h *ScrapeActionHandle) SetMethod(ctx context.Context, method string) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "method", method)
}

func (h *ScrapeActionHandle) SetURL(ctx context.Context, url string) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "url", url)
}

// MarkParsed sets parsed=T. Like every setter it fails with
// store.ErrNotFound when the action row no longer exists.
func (h *ScrapeActionHandle) MarkParsed(ctx context.Context) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "parsed", string(True))
}

func (h *ScrapeActionHandle) MarkUnparsed(ctx context.Context) error {
	return setActionColumn(ctx, h.store, store.TableScrapes, h.label, h.actionIndex, "parsed", string(False))
}

// ListScrapeActions returns every action of a scrape job ordered by index.
func ListScrapeActions(ctx context.Context, st *store.Store, label string) ([]ScrapeActionSnapshot, error) {
	rows, err := st.SearchPredicates(ctx, store.TableScrapes, store.And, store.Predicate{Column: "label", Value: label})
	if err != nil {
		return nil, err
	}
	out := make([]ScrapeActionSnapshot, len(rows))
	for i, r := range rows {
		out[i] = scrapeActionFromRow(r)
	}
	sortScrapeActionsByIndex(out)
	return out, nil
}

func sortScrapeActionsByIndex(actions []ScrapeActionSnapshot) {
	for i := 1; i < len(actions); i++ {
		for j := i; j > 0 && actions[j].ActionIndex < actions[j-1].ActionIndex; j-- {
			actions[j], actions[j-1] = actions[j-1], actions[j]
		}
	}
}

// SuccessfulUnparsedScrapeActions returns successful, not-yet-parsed
// actions belonging to scrape jobs in status X -- the input packet for
// parse mode A.
func SuccessfulUnparsedScrapeActions(ctx context.Context, st *store.Store) ([]ScrapeActionSnapshot, error) {
	labels, err := ListScrapeJobLabelsByStatus(ctx, st, StatusExecuted)
	if err != nil {
		return nil, err
	}
	var out []ScrapeActionSnapshot
	for _, label := range labels {
		actions, err := ListScrapeActions(ctx, st, label)
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			if a.Success && !a.Parsed {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// AllScrapeActionsOfExecutedJobs returns every action of every X scrape
// job -- the input packet for parse mode E.
func AllScrapeActionsOfExecutedJobs(ctx context.Context, st *store.Store) ([]ScrapeActionSnapshot, error) {
	labels, err := ListScrapeJobLabelsByStatus(ctx, st, StatusExecuted)
	if err != nil {
		return nil, err
	}
	var out []ScrapeActionSnapshot
	for _, label := range labels {
		actions, err := ListScrapeActions(ctx, st, label)
		if err != nil {
			return nil, err
		}
		out = append(out, actions...)
	}
	return out, nil
}
