package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/store"
)

func runStatus(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("status: expected a subcommand (jobs|pub)")
	}
	switch args[0] {
	case "jobs":
		return runStatusJobs(args[1:])
	case "pub":
		return runStatusPub(args[1:])
	default:
		return fmt.Errorf("status: unknown subcommand %q", args[0])
	}
}

func runStatusJobs(args []string) error {
	fs := flag.NewFlagSet("status jobs", flag.ExitOnError)
	g := &globalFlags{}
	bindGlobalFlags(fs, g)
	stage := fs.String("stage", "", "limit to scrape, parse, or commit (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	initLogger(cfg)

	_, jobsStore, pubsStore, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer jobsStore.DB().Close()
	defer pubsStore.DB().Close()

	ctx := context.Background()

	if *stage == "" || *stage == "scrape" {
		if err := printScrapeJobs(ctx, jobsStore); err != nil {
			return err
		}
	}
	if *stage == "" || *stage == "parse" {
		if err := printParseJobs(ctx, jobsStore); err != nil {
			return err
		}
	}
	if *stage == "" || *stage == "commit" {
		if err := printCommitJobs(ctx, jobsStore); err != nil {
			return err
		}
	}
	return nil
}

func printScrapeJobs(ctx context.Context, st *store.Store) error {
	fmt.Println("SCRAPE JOBS")
	fmt.Printf("%-28s %-8s %8s %8s %8s %-6s\n", "LABEL", "STATUS", "STEP", "OK", "FAIL", "PARSED")
	for _, status := range []jobs.Status{jobs.StatusInitialized, jobs.StatusWaiting, jobs.StatusRunning, jobs.StatusExecuted, jobs.StatusError} {
		labels, err := jobs.ListScrapeJobLabelsByStatus(ctx, st, status)
		if err != nil {
			return err
		}
		for _, label := range labels {
			snap, err := jobs.ReadScrapeJob(ctx, st, label)
			if err != nil {
				return err
			}
			if snap == nil {
				continue
			}
			fmt.Printf("%-28s %-8s %8d %8d %8d %-6v\n",
				snap.Label, snap.Status, snap.Step, snap.Successes, snap.Fails, snap.Parsed)
		}
	}
	return nil
}

func printParseJobs(ctx context.Context, st *store.Store) error {
	fmt.Println("PARSE JOBS")
	fmt.Printf("%-28s %-8s %-4s %8s %8s %-6s\n", "LABEL", "STATUS", "MODE", "OK", "FAIL", "COMMIT")
	for _, status := range []jobs.Status{jobs.StatusInitialized, jobs.StatusWaiting, jobs.StatusRunning, jobs.StatusExecuted, jobs.StatusError} {
		labels, err := jobs.ListParseJobLabelsByStatus(ctx, st, status)
		if err != nil {
			return err
		}
		for _, label := range labels {
			job, err := jobs.LoadParseJob(ctx, st, label)
			if err != nil {
				return err
			}
			snap, err := job.Snapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-28s %-8s %-4s %8d %8d %-6v\n",
				snap.Label, snap.Status, snap.Mode, snap.Successes, snap.Fails, snap.Committed)
		}
	}
	return nil
}

func printCommitJobs(ctx context.Context, st *store.Store) error {
	fmt.Println("COMMIT JOBS")
	fmt.Printf("%-28s %-8s %-4s %8s %8s\n", "LABEL", "STATUS", "MODE", "OK", "FAIL")
	rows, err := st.SearchPredicates(ctx, store.TableCommitJobs, store.And)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Printf("%-28s %-8v %-4v %8v %8v\n",
			row["label"], row["job_status"], row["mode"], row["job_successes"], row["job_fails"])
	}
	return nil
}

func runStatusPub(args []string) error {
	fs := flag.NewFlagSet("status pub", flag.ExitOnError)
	g := &globalFlags{}
	bindGlobalFlags(fs, g)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	initLogger(cfg)

	_, jobsStore, pubsStore, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer jobsStore.DB().Close()
	defer pubsStore.DB().Close()

	ctx := context.Background()
	rows, err := pubsStore.SearchPredicates(ctx, store.TablePub, store.And)
	if err != nil {
		return err
	}

	fmt.Println("PUBLICATIONS")
	fmt.Printf("%-28s %-24s %-20s %s\n", "DOI", "PUBLISHER", "JOURNAL", "TITLE")
	for _, row := range rows {
		fmt.Printf("%-28v %-24v %-20v %v\n", row["doi"], row["publisher"], row["journal"], row["title"])
	}
	return nil
}
