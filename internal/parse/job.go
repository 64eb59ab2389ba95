package parse

import (
	"context"
	"fmt"
	"os"

	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/logs"
	"github.com/ovcarj/appeer/internal/store"
)

// Input is one packed unit of work for a parse job: a file to run through
// the registry, optionally tied back to the scrape action that produced it.
type Input struct {
	ScrapeLabel       string
	ScrapeActionIndex int // -1 when the file has no scrape origin (mode F)
	InputFile         string
}

// PackAuto is parse mode A's packer: successful, not-yet-parsed scrape
// actions across every executed scrape job.
func PackAuto(ctx context.Context, st *store.Store) ([]Input, error) {
	actions, err := jobs.SuccessfulUnparsedScrapeActions(ctx, st)
	if err != nil {
		return nil, err
	}
	return inputsFromScrapeActions(actions), nil
}

// PackEverything is parse mode E's packer: every successful scrape action
// of every executed scrape job, ignoring prior parsed status.
func PackEverything(ctx context.Context, st *store.Store) ([]Input, error) {
	actions, err := jobs.AllScrapeActionsOfExecutedJobs(ctx, st)
	if err != nil {
		return nil, err
	}
	var successful []jobs.ScrapeActionSnapshot
	for _, a := range actions {
		if a.Success {
			successful = append(successful, a)
		}
	}
	return inputsFromScrapeActions(successful), nil
}

// PackScrapeJobs is parse mode S's packer: every successful action of the
// given scrape job labels. Each named job must be in status X.
func PackScrapeJobs(ctx context.Context, st *store.Store, labels []string) ([]Input, error) {
	var out []Input
	for _, label := range labels {
		job, err := jobs.LoadScrapeJob(ctx, st, label)
		if err != nil {
			return nil, err
		}
		snap, err := job.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if snap.Status != jobs.StatusExecuted {
			return nil, fmt.Errorf("%w: scrape job %q is not executed (status %s)", store.ErrInvariant, label, snap.Status)
		}
		actions, err := jobs.ListScrapeActions(ctx, st, label)
		if err != nil {
			return nil, err
		}
		var successful []jobs.ScrapeActionSnapshot
		for _, a := range actions {
			if a.Success {
				successful = append(successful, a)
			}
		}
		out = append(out, inputsFromScrapeActions(successful)...)
	}
	return out, nil
}

// PackFileList is parse mode F's packer: an arbitrary list of files with no
// scrape origin. Every file's readability is checked upfront so a bad path
// fails before any parse action row is created.
func PackFileList(files []string) ([]Input, error) {
	out := make([]Input, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return nil, fmt.Errorf("file list entry %s: %w", f, err)
		}
		out = append(out, Input{ScrapeActionIndex: -1, InputFile: f})
	}
	return out, nil
}

func inputsFromScrapeActions(actions []jobs.ScrapeActionSnapshot) []Input {
	out := make([]Input, 0, len(actions))
	for _, a := range actions {
		if a.OutFile == "" {
			continue
		}
		out = append(out, Input{ScrapeLabel: a.Label, ScrapeActionIndex: a.ActionIndex, InputFile: a.OutFile})
	}
	return out
}

// NewJob packs a parse job: one parse_jobs row plus one parses row per
// packed input, all in status I/W.
func NewJob(ctx context.Context, st *store.Store, label, description, date string, mode jobs.ParseMode, parseDirectory, logPath string, inputs []Input) (*jobs.ParseJobHandle, error) {
	job, err := jobs.NewParseJob(ctx, st, label, description, date, mode, parseDirectory, logPath, len(inputs))
	if err != nil {
		return nil, err
	}

	for i, in := range inputs {
		if _, err := jobs.NewParseAction(ctx, st, label, i, date, in.ScrapeLabel, in.ScrapeActionIndex, in.InputFile); err != nil {
			return nil, fmt.Errorf("pack parse action %d: %w", i, err)
		}
	}

	if len(inputs) > 0 {
		if err := job.SetStatus(ctx, jobs.StatusWaiting); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// RunOptions configures one drive of a parse job's action loop.
type RunOptions struct {
	RestartMode jobs.RestartMode
	// NoScrapeMark suppresses back-propagation to the originating scrape
	// actions/jobs, matching the source's no_scrape_mark flag.
	NoScrapeMark bool
}

// Run drives a parse job's actions: for each packed input it determines a
// parser via reg, extracts and normalizes its metadata via norm, persists
// the result, and -- unless suppressed -- marks the originating scrape
// action (and, once complete, its scrape job) as parsed.
func Run(ctx context.Context, st *store.Store, job *jobs.ParseJobHandle, reg *Registry, norm *Normalizer, consumer *logs.Consumer, opts RunOptions) error {
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
		consumer.Enqueue(logs.LevelError, "parse job has no inputs to process")
		return job.SetStatus(ctx, jobs.StatusError)
	}

	if err := job.SetStatus(ctx, jobs.StatusRunning); err != nil {
		return err
	}

	touchedScrapeJobs := make(map[string]bool)
	successes, fails := snap.Successes, snap.Fails

	actions, err := jobs.ListParseActions(ctx, st, job.Label())
	if err != nil {
		return err
	}
	for _, actionSnap := range actions {
		handle, err := jobs.LoadParseAction(ctx, st, job.Label(), actionSnap.ActionIndex)
		if err != nil {
			return err
		}

		ok, runErr := runOne(ctx, st, handle, actionSnap, reg, norm)
		if runErr != nil {
			consumer.Enqueue(logs.LevelWarn, fmt.Sprintf("action %d: %v", actionSnap.ActionIndex, runErr))
		}

		if ok {
			successes++
			consumer.Enqueue(logs.LevelInfo, fmt.Sprintf("action %d parsed: %s", actionSnap.ActionIndex, actionSnap.InputFile))
			if !opts.NoScrapeMark && actionSnap.ScrapeLabel != "" {
				scrapeHandle, err := jobs.LoadScrapeAction(ctx, st, actionSnap.ScrapeLabel, actionSnap.ScrapeActionIndex)
				if err != nil {
					return err
				}
				if err := scrapeHandle.MarkParsed(ctx); err != nil {
					return err
				}
				touchedScrapeJobs[actionSnap.ScrapeLabel] = true
			}
		} else {
			fails++
			consumer.Enqueue(logs.LevelWarn, fmt.Sprintf("action %d did not parse: %s", actionSnap.ActionIndex, actionSnap.InputFile))
		}

		if err := job.SetSuccesses(ctx, successes); err != nil {
			return err
		}
		if err := job.SetFails(ctx, fails); err != nil {
			return err
		}
	}

	for scrapeLabel := range touchedScrapeJobs {
		complete, err := allSuccessfulScrapeActionsParsed(ctx, st, scrapeLabel)
		if err != nil {
			return err
		}
		if complete {
			scrapeJob, err := jobs.LoadScrapeJob(ctx, st, scrapeLabel)
			if err != nil {
				return err
			}
			if err := scrapeJob.SetParsed(ctx, true); err != nil {
				return err
			}
		}
	}

	return job.SetStatus(ctx, jobs.StatusExecuted)
}

// runOne parses one action's input file and persists the outcome. The
// returned bool reports whether the parse was a success (a parser matched
// and every normalized metadata field was populated); the action's own
// status lands on X for that outcome and E when the run errored or the
// parse was unsuccessful.
func runOne(ctx context.Context, st *store.Store, handle *jobs.ParseActionHandle, snap jobs.ParseActionSnapshot, reg *Registry, norm *Normalizer) (bool, error) {
	if err := handle.SetStatus(ctx, jobs.StatusRunning); err != nil {
		return false, err
	}

	ok, runErr := parseOne(ctx, handle, snap, reg, norm)

	finalStatus := jobs.StatusExecuted
	if runErr != nil || !ok {
		finalStatus = jobs.StatusError
	}
	if err := handle.SetStatus(ctx, finalStatus); err != nil {
		return false, err
	}
	return ok, runErr
}

func parseOne(ctx context.Context, handle *jobs.ParseActionHandle, snap jobs.ParseActionSnapshot, reg *Registry, norm *Normalizer) (bool, error) {
	pre, err := NewPreparser(snap.InputFile, nil, nil, nil)
	if err != nil {
		return false, handle.SetSuccess(ctx, false)
	}

	parser, doc, err := pre.DetermineParser(reg)
	if err != nil {
		return false, handle.SetSuccess(ctx, false)
	}
	if parser == nil {
		if setErr := handle.SetSuccess(ctx, false); setErr != nil {
			return false, setErr
		}
		return false, fmt.Errorf("no registered parser matched %s", snap.InputFile)
	}

	if err := handle.SetParser(ctx, parser.PublisherCode()); err != nil {
		return false, err
	}

	raw := parser.Extract(doc)
	metadata := norm.Normalize(parser.PublisherCode(), raw)

	if err := handle.SetMetadata(ctx, metadata); err != nil {
		return false, err
	}

	ok := metadata.Success()
	if err := handle.SetSuccess(ctx, ok); err != nil {
		return false, err
	}
	return ok, nil
}

func allSuccessfulScrapeActionsParsed(ctx context.Context, st *store.Store, scrapeLabel string) (bool, error) {
	actions, err := jobs.ListScrapeActions(ctx, st, scrapeLabel)
	if err != nil {
		return false, err
	}
	for _, a := range actions {
		if a.Success && !a.Parsed {
			return false, nil
		}
	}
	return true, nil
}
