package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/logs"
	"github.com/ovcarj/appeer/internal/store"
)

// NewJob packs a scrape job: it plans every input URL and inserts one
// scrape_jobs row plus one scrapes row per planned entry, all in status I/W.
func NewJob(ctx context.Context, st *store.Store, label, description, date, downloadDirectory, zipFile, logPath string, urls []string) (*jobs.ScrapeJobHandle, error) {
	planned := Plan(urls)

	job, err := jobs.NewScrapeJob(ctx, st, label, description, date, downloadDirectory, zipFile, logPath, len(planned))
	if err != nil {
		return nil, err
	}

	for i, p := range planned {
		if _, err := jobs.NewScrapeAction(ctx, st, label, i, date, p.URL, p.Journal, p.Strategy, p.Method); err != nil {
			return nil, fmt.Errorf("pack scrape action %d: %w", i, err)
		}
	}

	if len(planned) > 0 {
		if err := job.SetStatus(ctx, jobs.StatusWaiting); err != nil {
			return nil, err
		}
	}
	return job, nil
}

// RunOptions configures one drive of a scrape job's action loop.
type RunOptions struct {
	RestartMode jobs.RestartMode
	SleepTime   time.Duration
	Cleanup     bool
}

// Run drives a scrape job's actions from its persisted step (resume) or
// from zero (from_scratch), archiving successful output files at the end.
func Run(ctx context.Context, st *store.Store, job *jobs.ScrapeJobHandle, fetcher *Fetcher, consumer *logs.Consumer, opts RunOptions) error {
	snap, err := job.Snapshot(ctx)
	if err != nil {
		return err
	}

	if opts.RestartMode == jobs.FromScratch {
		if err := job.SetStep(ctx, 0); err != nil {
			return err
		}
		if err := job.SetSuccesses(ctx, 0); err != nil {
			return err
		}
		if err := job.SetFails(ctx, 0); err != nil {
			return err
		}
		snap.Step, snap.Successes, snap.Fails = 0, 0, 0
	}

	if snap.NoOfPublications == 0 {
		consumer.Enqueue(logs.LevelError, "scrape job has no publications to process")
		return job.SetStatus(ctx, jobs.StatusError)
	}

	if err := job.SetStatus(ctx, jobs.StatusRunning); err != nil {
		return err
	}

	successes, fails := snap.Successes, snap.Fails
	for step := snap.Step; step < snap.NoOfPublications; step++ {
		handle, err := jobs.LoadScrapeAction(ctx, st, job.Label(), step)
		if err != nil {
			return err
		}

		if err := ExecuteAction(ctx, fetcher, handle, snap.DownloadDirectory); err != nil {
			consumer.Enqueue(logs.LevelWarn, fmt.Sprintf("action %d: %v", step, err))
		}

		actionSnap, err := handle.Snapshot(ctx)
		if err != nil {
			return err
		}
		if actionSnap.Success {
			successes++
			consumer.Enqueue(logs.LevelInfo, fmt.Sprintf("action %d succeeded: %s", step, actionSnap.URL))
		} else {
			fails++
			consumer.Enqueue(logs.LevelWarn, fmt.Sprintf("action %d failed: %s", step, actionSnap.URL))
		}

		if err := job.SetStep(ctx, step+1); err != nil {
			return err
		}
		if err := job.SetSuccesses(ctx, successes); err != nil {
			return err
		}
		if err := job.SetFails(ctx, fails); err != nil {
			return err
		}

		if step+1 < snap.NoOfPublications && opts.SleepTime > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.SleepTime):
			}
		}
	}

	outFiles, err := collectOutFiles(ctx, st, job.Label())
	if err != nil {
		return err
	}
	if len(outFiles) > 0 {
		if err := Archive(snap.ZipFile, outFiles); err != nil {
			consumer.Enqueue(logs.LevelWarn, fmt.Sprintf("archival failed: %v", err))
		} else if err := job.SetZipFile(ctx, snap.ZipFile); err != nil {
			return err
		}
	}
	if opts.Cleanup {
		if err := CleanupDownloadDirectory(snap.DownloadDirectory); err != nil {
			consumer.Enqueue(logs.LevelWarn, fmt.Sprintf("cleanup failed: %v", err))
		}
	}

	return job.SetStatus(ctx, jobs.StatusExecuted)
}

func collectOutFiles(ctx context.Context, st *store.Store, label string) ([]string, error) {
	actions, err := jobs.ListScrapeActions(ctx, st, label)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, a := range actions {
		if a.Success && a.OutFile != "" {
			files = append(files, a.OutFile)
		}
	}
	return files, nil
}
