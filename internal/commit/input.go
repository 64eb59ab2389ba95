// Package commit implements the final pipeline stage: packing successfully
// parsed actions, applying the duplicate-DOI policy against the pub table,
// and back-propagating committed status to their originating parse actions
// and jobs.
package commit

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/store"
)

// Input is one packed unit of work for a commit job.
type Input struct {
	ParseLabel       string
	ParseActionIndex int
	Metadata         jobs.ParsedMetadata
}

// PackAuto is commit mode A's packer: successful, not-yet-committed parse
// actions across every executed parse job.
func PackAuto(ctx context.Context, st *store.Store) ([]Input, error) {
	actions, err := jobs.SuccessfulUncommittedParseActions(ctx, st)
	if err != nil {
		return nil, err
	}
	return inputsFromParseActions(actions), nil
}

// PackEverything is commit mode E's packer: every successful parse action
// across every executed parse job, ignoring prior commit status.
func PackEverything(ctx context.Context, st *store.Store) ([]Input, error) {
	actions, err := jobs.AllSuccessfulParseActions(ctx, st)
	if err != nil {
		return nil, err
	}
	return inputsFromParseActions(actions), nil
}

// PackParseJobs is commit mode P's packer: every successful action of the
// given parse job labels. Each named job must be in status X.
func PackParseJobs(ctx context.Context, st *store.Store, labels []string) ([]Input, error) {
	var out []Input
	for _, label := range labels {
		job, err := jobs.LoadParseJob(ctx, st, label)
		if err != nil {
			return nil, err
		}
		snap, err := job.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if snap.Status != jobs.StatusExecuted {
			return nil, fmt.Errorf("%w: parse job %q is not executed (status %s)", store.ErrInvariant, label, snap.Status)
		}
		actions, err := jobs.ListParseActions(ctx, st, label)
		if err != nil {
			return nil, err
		}
		var successful []jobs.ParseActionSnapshot
		for _, a := range actions {
			if a.Success {
				successful = append(successful, a)
			}
		}
		out = append(out, inputsFromParseActions(successful)...)
	}
	return out, nil
}

// inputsFromParseActions reconstructs a ParsedMetadata from a stored parse
// action. The parses table persists only the normalized field values (see
// ParseActionHandle.SetMetadata), so raw and normalized fields below are
// the same value; pub's separate raw/normalized columns are filled
// identically as a result.
func inputsFromParseActions(actions []jobs.ParseActionSnapshot) []Input {
	out := make([]Input, 0, len(actions))
	for _, a := range actions {
		m := jobs.ParsedMetadata{
			DOI:                 a.DOI,
			Publisher:           a.Publisher,
			Journal:             a.Journal,
			Title:               a.Title,
			PublicationType:     a.PublicationType,
			Affiliations:        a.Affiliations,
			Received:            a.Received,
			Accepted:            a.Accepted,
			Published:           a.Published,
			NormalizedPublisher: a.Publisher,
			NormalizedJournal:   a.Journal,
			NormalizedReceived:  a.Received,
			NormalizedAccepted:  a.Accepted,
			NormalizedPublished: a.Published,
		}
		out = append(out, Input{ParseLabel: a.Label, ParseActionIndex: a.ActionIndex, Metadata: m})
	}
	return out
}
