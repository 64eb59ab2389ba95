package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/ovcarj/appeer/internal/commit"
	"github.com/ovcarj/appeer/internal/common"
	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/logs"
)

func runCommit(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("commit: expected a subcommand (run)")
	}
	switch args[0] {
	case "run":
		return runCommitRun(args[1:])
	default:
		return fmt.Errorf("commit: unknown subcommand %q", args[0])
	}
}

func runCommitRun(args []string) error {
	fs := flag.NewFlagSet("commit run", flag.ExitOnError)
	g := &globalFlags{}
	bindGlobalFlags(fs, g)
	mode := fs.String("mode", "A", "A (auto), E (everything), or P (parse-jobs)")
	parseJobs := fs.String("parse-jobs", "", "comma-separated parse job labels (mode P)")
	label := fs.String("label", "", "job label (auto-generated when omitted)")
	description := fs.String("description", "", "job description")
	restartMode := fs.String("restart-mode", "from_scratch", "from_scratch or resume")
	overwrite := fs.Bool("overwrite", false, "replace an existing pub row on a duplicate DOI instead of rejecting it")
	noParseMark := fs.Bool("no-parse-mark", false, "do not back-propagate committed status to parse actions/jobs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	initLogger(cfg)

	dd, jobsStore, _, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer jobsStore.DB().Close()

	ctx := context.Background()

	commitMode := jobs.CommitMode(*mode)
	var inputs []commit.Input
	switch commitMode {
	case jobs.CommitModeAuto:
		inputs, err = commit.PackAuto(ctx, jobsStore)
	case jobs.CommitModeEverything:
		inputs, err = commit.PackEverything(ctx, jobsStore)
	case jobs.CommitModeParseJobs:
		labels := splitCSV(*parseJobs)
		if len(labels) == 0 {
			return fmt.Errorf("commit run: mode P requires --parse-jobs")
		}
		inputs, err = commit.PackParseJobs(ctx, jobsStore, labels)
	default:
		return fmt.Errorf("commit run: unknown mode %q", *mode)
	}
	if err != nil {
		return err
	}

	lbl := *label
	if lbl == "" {
		lbl = common.NewJobLabel("commit", time.Now())
	}
	date := time.Now().UTC().Format("2006-01-02")
	logPath := dd.CommitLogFileFor(lbl)

	job, err := commit.NewJob(ctx, jobsStore, lbl, *description, date, commitMode, logPath, inputs)
	if err != nil {
		return err
	}

	jobLogger, err := common.NewJobLogger(cfg.Logging.Level, logPath)
	if err != nil {
		return err
	}
	consumer := logs.NewConsumer(jobLogger)
	consumer.Start()
	defer consumer.Stop()

	restart := jobs.FromScratch
	if *restartMode == "resume" {
		restart = jobs.Resume
	}

	opts := commit.RunOptions{RestartMode: restart, Overwrite: *overwrite, NoParseMark: *noParseMark}
	if err := commit.Run(ctx, jobsStore, job, consumer, opts); err != nil {
		return err
	}

	snap, err := job.Snapshot(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("label", lbl).Str("status", string(snap.Status)).
		Int("successes", snap.Successes).Int("fails", snap.Fails).
		Msg("commit job finished")
	return nil
}
