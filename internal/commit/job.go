package commit

import (
	"context"
	"fmt"

	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/logs"
	"github.com/ovcarj/appeer/internal/store"
)

// NewJob packs a commit job: one commit_jobs row plus one commits row per
// packed input, all in status I/W.
func NewJob(ctx context.Context, st *store.Store, label, description, date string, mode jobs.CommitMode, logPath string, inputs []Input) (*jobs.CommitJobHandle, error) {
	job, err := jobs.NewCommitJob(ctx, st, label, description, date, mode, logPath, len(inputs))
	if err != nil {
		return nil, err
	}

	for i, in := range inputs {
		if _, err := jobs.NewCommitAction(ctx, st, label, i, date, in.ParseLabel, in.ParseActionIndex, in.Metadata); err != nil {
			return nil, fmt.Errorf("pack commit action %d: %w", i, err)
		}
	}

	if len(inputs) > 0 {
		if err := job.SetStatus(ctx, jobs.StatusWaiting); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// RunOptions configures one drive of a commit job's action loop.
type RunOptions struct {
	RestartMode jobs.RestartMode
	// Overwrite selects the duplicate-DOI policy: false rejects a DOI
	// already present in pub (duplicate=T, passed=F, success=T); true
	// replaces the existing row (duplicate=T, passed=T, success=T). Either
	// way the commit action itself is a success -- a cleanly enforced
	// policy outcome, not an error.
	Overwrite bool
	// NoParseMark suppresses back-propagation to the originating parse
	// actions/jobs, matching the source's no_parse_mark flag.
	NoParseMark bool
}

// Run drives a commit job's actions: for each packed input it applies the
// duplicate-DOI policy against the pub table and, unless suppressed, marks
// the originating parse action (and, once complete, its parse job) as
// committed.
func Run(ctx context.Context, st *store.Store, job *jobs.CommitJobHandle, consumer *logs.Consumer, opts RunOptions) error {
	snap, err := job.Snapshot(ctx)
	if err != nil {
		return err
	}

	if opts.RestartMode == jobs.FromScratch {
		if err := job.SetSuccesses(ctx, 0); err != nil {
			return err
		}
		if err := job.SetFails(ctx, 0); err != nil {
			return err
		}
		snap.Successes, snap.Fails = 0, 0
	}

	if snap.NoOfPublications == 0 {
		consumer.Enqueue(logs.LevelError, "commit job has no inputs to process")
		return job.SetStatus(ctx, jobs.StatusError)
	}

	if err := job.SetStatus(ctx, jobs.StatusRunning); err != nil {
		return err
	}

	touchedParseJobs := make(map[string]bool)
	successes, fails := snap.Successes, snap.Fails

	actions, err := jobs.ListCommitActions(ctx, st, job.Label())
	if err != nil {
		return err
	}
	for _, actionSnap := range actions {
		result, err := applyPolicy(ctx, st, actionSnap, opts.Overwrite)
		if err != nil {
			return err
		}

		if err := setCommitResult(ctx, st, job.Label(), actionSnap.ActionIndex, result); err != nil {
			return err
		}

		if result.success {
			successes++
			consumer.Enqueue(logs.LevelInfo, fmt.Sprintf("action %d committed (doi=%s duplicate=%v passed=%v)",
				actionSnap.ActionIndex, actionSnap.DOI, result.duplicate, result.passed))
			if !opts.NoParseMark && actionSnap.ParseLabel != "" {
				parseHandle, err := jobs.LoadParseAction(ctx, st, actionSnap.ParseLabel, actionSnap.ParseActionIndex)
				if err != nil {
					return err
				}
				if err := parseHandle.MarkCommitted(ctx); err != nil {
					return err
				}
				touchedParseJobs[actionSnap.ParseLabel] = true
			}
		} else {
			fails++
			consumer.Enqueue(logs.LevelWarn, fmt.Sprintf("action %d failed: %s", actionSnap.ActionIndex, actionSnap.DOI))
		}

		if err := job.SetSuccesses(ctx, successes); err != nil {
			return err
		}
		if err := job.SetFails(ctx, fails); err != nil {
			return err
		}
	}

	for parseLabel := range touchedParseJobs {
		complete, err := allSuccessfulParseActionsCommitted(ctx, st, parseLabel)
		if err != nil {
			return err
		}
		if complete {
			parseJob, err := jobs.LoadParseJob(ctx, st, parseLabel)
			if err != nil {
				return err
			}
			if err := parseJob.SetCommitted(ctx, true); err != nil {
				return err
			}
		}
	}

	return job.SetStatus(ctx, jobs.StatusExecuted)
}

type policyResult struct {
	success   bool
	passed    bool
	duplicate bool
}

// applyPolicy enforces the duplicate-DOI policy for one commit action
// against the pub table.
func applyPolicy(ctx context.Context, st *store.Store, snap jobs.CommitActionSnapshot, overwrite bool) (policyResult, error) {
	if snap.DOI == "" {
		return policyResult{success: false}, nil
	}

	exists, err := st.Exists(ctx, store.TablePub, store.Row{"doi": snap.DOI})
	if err != nil {
		return policyResult{}, err
	}

	row := store.Row{
		"doi":                   snap.DOI,
		"received":              snap.Received,
		"accepted":              snap.Accepted,
		"published":             snap.Published,
		"duration":              durationDays(snap.Received, snap.Published),
		"publisher":             snap.Publisher,
		"journal":               snap.Journal,
		"title":                 snap.Title,
		"affiliations":          snap.Affiliations,
		"normalized_publisher":  snap.Publisher,
		"normalized_journal":    snap.Journal,
		"normalized_received":   snap.Received,
		"normalized_accepted":   snap.Accepted,
		"normalized_published":  snap.Published,
	}

	if !exists {
		if err := st.AddEntry(ctx, store.TablePub, row); err != nil {
			return policyResult{}, err
		}
		return policyResult{success: true, passed: true, duplicate: false}, nil
	}

	if overwrite {
		if err := st.UpsertEntry(ctx, store.TablePub, row); err != nil {
			return policyResult{}, err
		}
		return policyResult{success: true, passed: true, duplicate: true}, nil
	}

	return policyResult{success: true, passed: false, duplicate: true}, nil
}

func setCommitResult(ctx context.Context, st *store.Store, label string, index int, result policyResult) error {
	handle, err := jobs.LoadCommitAction(ctx, st, label, index)
	if err != nil {
		return err
	}
	if err := handle.SetResult(ctx, result.success, result.passed, result.duplicate); err != nil {
		return err
	}
	status := jobs.StatusExecuted
	if !result.success {
		status = jobs.StatusError
	}
	return handle.SetStatus(ctx, status)
}

func allSuccessfulParseActionsCommitted(ctx context.Context, st *store.Store, parseLabel string) (bool, error) {
	actions, err := jobs.ListParseActions(ctx, st, parseLabel)
	if err != nil {
		return false, err
	}
	for _, a := range actions {
		if a.Success && !a.Committed {
			return false, nil
		}
	}
	return true, nil
}
