package scrape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ovcarj/appeer/internal/jobs"
)

// ExecuteAction runs one scrape action to completion: it sets status=R,
// dispatches by the planned method, and leaves status=X on success or
// status=E when the run errored or the action's own outcome is success=F.
func ExecuteAction(ctx context.Context, fetcher *Fetcher, handle *jobs.ScrapeActionHandle, downloadDirectory string) error {
	if err := handle.SetStatus(ctx, jobs.StatusRunning); err != nil {
		return err
	}

	snap, err := handle.Snapshot(ctx)
	if err != nil {
		return err
	}

	var runErr error
	switch snap.Method {
	case "skip":
		runErr = runSkip(ctx, handle)
	case "html_simple":
		runErr = runHTMLSimple(ctx, fetcher, handle, snap.ActionIndex, snap.URL, downloadDirectory)
	case "doi_handler":
		runErr = runDOIHandler(ctx, fetcher, handle, snap.ActionIndex, snap.URL, downloadDirectory)
	default:
		runErr = fmt.Errorf("unknown scrape method %q", snap.Method)
	}

	finalSnap, snapErr := handle.Snapshot(ctx)
	if snapErr != nil {
		return snapErr
	}

	finalStatus := jobs.StatusExecuted
	if runErr != nil || !finalSnap.Success {
		finalStatus = jobs.StatusError
	}
	if err := handle.SetStatus(ctx, finalStatus); err != nil {
		return err
	}
	return runErr
}

func runSkip(ctx context.Context, handle *jobs.ScrapeActionHandle) error {
	return handle.SetSuccess(ctx, false)
}

func runHTMLSimple(ctx context.Context, fetcher *Fetcher, handle *jobs.ScrapeActionHandle, index int, url string, downloadDirectory string) error {
	body, err := fetcher.Get(ctx, url)
	if err != nil {
		return handle.SetSuccess(ctx, false)
	}

	if err := os.MkdirAll(downloadDirectory, 0755); err != nil {
		return err
	}
	outFile := filepath.Join(downloadDirectory, fmt.Sprintf("%d.html", index))
	if err := os.WriteFile(outFile, body, 0644); err != nil {
		return err
	}
	if err := handle.SetOutFile(ctx, outFile); err != nil {
		return err
	}
	return handle.SetSuccess(ctx, true)
}

func runDOIHandler(ctx context.Context, fetcher *Fetcher, handle *jobs.ScrapeActionHandle, index int, url string, downloadDirectory string) error {
	resolved, err := fetcher.Head(ctx, url)
	if err != nil {
		return handle.SetSuccess(ctx, false)
	}

	replanned := planOne(resolved)
	if err := handle.SetURL(ctx, resolved); err != nil {
		return err
	}
	if err := handle.SetJournal(ctx, replanned.Journal); err != nil {
		return err
	}
	if err := handle.SetStrategy(ctx, replanned.Strategy); err != nil {
		return err
	}
	if err := handle.SetMethod(ctx, replanned.Method); err != nil {
		return err
	}

	switch replanned.Method {
	case "skip":
		return runSkip(ctx, handle)
	case "html_simple":
		return runHTMLSimple(ctx, fetcher, handle, index, resolved, downloadDirectory)
	default:
		// A DOI resolving to another DOI-strategy host is not expected;
		// treat as unresolved rather than recursing indefinitely.
		return handle.SetSuccess(ctx, false)
	}
}
