package jobs

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/store"
)

// ParseActionSnapshot is a read-only view of one parses row.
type ParseActionSnapshot struct {
	Label             string
	ActionIndex       int
	Date              string
	ScrapeLabel       string
	ScrapeActionIndex int
	InputFile         string
	DOI               string
	Publisher         string
	Journal           string
	Title             string
	PublicationType   string
	Affiliations      string
	Received          string
	Accepted          string
	Published         string
	Parser            string
	Status            Status
	Success           bool
	Committed         bool
}

func parseActionFromRow(r store.Row) ParseActionSnapshot {
	return ParseActionSnapshot{
		Label:             rowString(r, "label"),
		ActionIndex:       rowInt(r, "action_index"),
		Date:              rowString(r, "date"),
		ScrapeLabel:       rowString(r, "scrape_label"),
		ScrapeActionIndex: rowInt(r, "scrape_action_index"),
		InputFile:         rowString(r, "input_file"),
		DOI:               rowString(r, "doi"),
		Publisher:         rowString(r, "publisher"),
		Journal:           rowString(r, "journal"),
		Title:             rowString(r, "title"),
		PublicationType:   rowString(r, "publication_type"),
		Affiliations:      rowString(r, "affiliations"),
		Received:          rowString(r, "received"),
		Accepted:          rowString(r, "accepted"),
		Published:         rowString(r, "published"),
		Parser:            rowString(r, "parser"),
		Status:            Status(rowString(r, "status")),
		Success:           rowTriState(r, "success").Bool(),
		Committed:         rowTriState(r, "committed").Bool(),
	}
}

type ParseActionHandle struct {
	store       *store.Store
	label       string
	actionIndex int
}

// NewParseAction inserts a new parses row in status W. scrapeActionIndex
// of -1 indicates no scrape origin (mode F packets).
func NewParseAction(ctx context.Context, st *store.Store, label string, index int, date, scrapeLabel string, scrapeActionIndex int, inputFile string) (*ParseActionHandle, error) {
	err := st.AddEntry(ctx, store.TableParses, store.Row{
		"label":               label,
		"action_index":        index,
		"date":                date,
		"scrape_label":        scrapeLabel,
		"scrape_action_index": scrapeActionIndex,
		"input_file":          inputFile,
		"status":              string(StatusWaiting),
		"success":             string(False),
		"committed":           string(False),
	})
	if err != nil {
		return nil, err
	}
	return &ParseActionHandle{store: st, label: label, actionIndex: index}, nil
}

func LoadParseAction(ctx context.Context, st *store.Store, label string, index int) (*ParseActionHandle, error) {
	exists, err := st.Exists(ctx, store.TableParses, store.Row{"label": label, "action_index": index})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: parse action %s/%d", store.ErrNotFound, label, index)
	}
	return &ParseActionHandle{store: st, label: label, actionIndex: index}, nil
}

func (h *ParseActionHandle) Snapshot(ctx context.Context) (ParseActionSnapshot, error) {
	row, err := h.store.GetByKey(ctx, store.TableParses, store.Row{"label": h.label, "action_index": h.actionIndex})
	if err != nil {
		return ParseActionSnapshot{}, err
	}
	return parseActionFromRow(row), nil
}

func (h *ParseActionHandle) SetStatus(ctx context.Context, s Status) error {
	return setActionColumn(ctx, h.store, store.TableParses, h.label, h.actionIndex, "status", string(s))
}

func (h *ParseActionHandle) SetSuccess(ctx context.Context, ok bool) error {
	return setActionColumn(ctx, h.store, store.TableParses, h.label, h.actionIndex, "success", string(BoolToTriState(ok)))
}

func (h *ParseActionHandle) SetParser(ctx context.Context, parserName string) error {
	return setActionColumn(ctx, h.store, store.TableParses, h.label, h.actionIndex, "parser", parserName)
}

// SetMetadata writes every extracted field at once.
func (h *ParseActionHandle) SetMetadata(ctx context.Context, m ParsedMetadata) error {
	fields := map[string]string{
		"doi":              m.DOI,
		"publisher":        m.NormalizedPublisher,
		"journal":          m.NormalizedJournal,
		"title":            m.Title,
		"publication_type": m.PublicationType,
		"affiliations":     m.Affiliations,
		"received":         m.NormalizedReceived,
		"accepted":         m.NormalizedAccepted,
		"published":        m.NormalizedPublished,
	}
	for col, val := range fields {
		if err := setActionColumn(ctx, h.store, store.TableParses, h.label, h.actionIndex, col, val); err != nil {
			return err
		}
	}
	return nil
}

func (h *ParseActionHandle) MarkCommitted(ctx context.Context) error {
	return setActionColumn(ctx, h.store, store.TableParses, h.label, h.actionIndex, "committed", string(True))
}

// ParsedMetadata is the closed set of fields a Parser produces, including
// the normalized derived fields (see internal/parse).
type ParsedMetadata struct {
	DOI                 string
	Publisher           string
	Journal             string
	Title               string
	PublicationType     string
	Affiliations        string
	Received            string
	Accepted            string
	Published           string
	NormalizedPublisher string
	NormalizedJournal   string
	NormalizedReceived  string
	NormalizedAccepted  string
	NormalizedPublished string
}

// Success is true iff every field of the closed metadata set is non-empty,
// mirroring the source's `all(getattr(self, entry) for entry in
// metadata_list)` success definition.
func (m ParsedMetadata) Success() bool {
	return m.DOI != "" && m.NormalizedPublisher != "" && m.NormalizedJournal != "" &&
		m.Title != "" && m.PublicationType != "" && m.Affiliations != "" &&
		m.NormalizedReceived != "" && m.NormalizedAccepted != "" && m.NormalizedPublished != ""
}

func ListParseActions(ctx context.Context, st *store.Store, label string) ([]ParseActionSnapshot, error) {
	rows, err := st.SearchPredicates(ctx, store.TableParses, store.And, store.Predicate{Column: "label", Value: label})
	if err != nil {
		return nil, err
	}
	out := make([]ParseActionSnapshot, len(rows))
	for i, r := range rows {
		out[i] = parseActionFromRow(r)
	}
	sortParseActionsByIndex(out)
	return out, nil
}

func sortParseActionsByIndex(actions []ParseActionSnapshot) {
	for i := 1; i < len(actions); i++ {
		for j := i; j > 0 && actions[j].ActionIndex < actions[j-1].ActionIndex; j-- {
			actions[j], actions[j-1] = actions[j-1], actions[j]
		}
	}
}

// SuccessfulUncommittedParseActions returns the input packet for commit
// mode A: successful, not-yet-committed parse actions across X parse jobs.
func SuccessfulUncommittedParseActions(ctx context.Context, st *store.Store) ([]ParseActionSnapshot, error) {
	labels, err := ListParseJobLabelsByStatus(ctx, st, StatusExecuted)
	if err != nil {
		return nil, err
	}
	var out []ParseActionSnapshot
	for _, label := range labels {
		actions, err := ListParseActions(ctx, st, label)
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			if a.Success && !a.Committed {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

// AllSuccessfulParseActions returns the input packet for commit mode E:
// every successful parse action across X parse jobs, ignoring prior
// commit status.
func AllSuccessfulParseActions(ctx context.Context, st *store.Store) ([]ParseActionSnapshot, error) {
	labels, err := ListParseJobLabelsByStatus(ctx, st, StatusExecuted)
	if err != nil {
		return nil, err
	}
	var out []ParseActionSnapshot
	for _, label := range labels {
		actions, err := ListParseActions(ctx, st, label)
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			if a.Success {
				out = append(out, a)
			}
		}
	}
	return out, nil
}
