package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/ovcarj/appeer/internal/common"
	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/logs"
	"github.com/ovcarj/appeer/internal/scrape"
)

func runScrape(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("scrape: expected a subcommand (run)")
	}
	switch args[0] {
	case "run":
		return runScrapeRun(args[1:])
	default:
		return fmt.Errorf("scrape: unknown subcommand %q", args[0])
	}
}

func runScrapeRun(args []string) error {
	fs := flag.NewFlagSet("scrape run", flag.ExitOnError)
	g := &globalFlags{}
	bindGlobalFlags(fs, g)
	input := fs.String("input", "", "input file of URLs/DOIs (plaintext or .json)")
	label := fs.String("label", "", "job label (auto-generated when omitted)")
	description := fs.String("description", "", "job description")
	restartMode := fs.String("restart-mode", "from_scratch", "from_scratch or resume")
	cleanup := fs.Bool("cleanup", false, "remove the download directory after archiving")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("scrape run: --input is required")
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

	urls, err := scrape.ParseInputFile(*input)
	if err != nil {
		return err
	}

	lbl := *label
	if lbl == "" {
		lbl = common.NewJobLabel("scrape", time.Now())
	}
	date := time.Now().UTC().Format("2006-01-02")
	logPath := dd.ScrapeLogFileFor(lbl)

	ctx := context.Background()
	job, err := scrape.NewJob(ctx, jobsStore, lbl, *description, date,
		dd.DownloadDirFor(lbl), dd.ZipFileFor(lbl), logPath, urls)
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

	fetcher := scrape.NewFetcher(scrape.RetryConfig{
		MaxTries:         cfg.ScrapeDefaults.MaxTries,
		RetrySleep:       durationOf(cfg.ScrapeDefaults.RetrySleepTime, time.Second),
		TooManyReqsSleep: durationOf(cfg.ScrapeDefaults.FourTwentyNineMinute, time.Minute),
		RequestTimeout:   30 * time.Second,
	}, logger)

	restart := jobs.FromScratch
	if *restartMode == "resume" {
		restart = jobs.Resume
	}

	opts := scrape.RunOptions{
		RestartMode: restart,
		SleepTime:   durationOf(cfg.ScrapeDefaults.SleepTime, time.Second),
		Cleanup:     *cleanup,
	}
	if err := scrape.Run(ctx, jobsStore, job, fetcher, consumer, opts); err != nil {
		return err
	}

	snap, err := job.Snapshot(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("label", lbl).Str("status", string(snap.Status)).
		Int("successes", snap.Successes).Int("fails", snap.Fails).
		Msg("scrape job finished")
	return nil
}

func durationOf(seconds float64, unit time.Duration) time.Duration {
	return time.Duration(seconds * float64(unit))
}
