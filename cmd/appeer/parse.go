package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ovcarj/appeer/internal/common"
	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/logs"
	"github.com/ovcarj/appeer/internal/parse"
)

func runParse(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("parse: expected a subcommand (run)")
	}
	switch args[0] {
	case "run":
		return runParseRun(args[1:])
	default:
		return fmt.Errorf("parse: unknown subcommand %q", args[0])
	}
}

func runParseRun(args []string) error {
	fs := flag.NewFlagSet("parse run", flag.ExitOnError)
	g := &globalFlags{}
	bindGlobalFlags(fs, g)
	mode := fs.String("mode", "A", "A (auto), E (everything), S (scrape-jobs), or F (file-list)")
	scrapeJobs := fs.String("scrape-jobs", "", "comma-separated scrape job labels (mode S)")
	files := fs.String("files", "", "comma-separated input files (mode F)")
	label := fs.String("label", "", "job label (auto-generated when omitted)")
	description := fs.String("description", "", "job description")
	restartMode := fs.String("restart-mode", "from_scratch", "from_scratch or resume")
	noScrapeMark := fs.Bool("no-scrape-mark", false, "do not back-propagate parsed status to scrape actions/jobs")
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

	parseMode := jobs.ParseMode(*mode)
	var inputs []parse.Input
	switch parseMode {
	case jobs.ParseModeAuto:
		inputs, err = parse.PackAuto(ctx, jobsStore)
	case jobs.ParseModeEverything:
		inputs, err = parse.PackEverything(ctx, jobsStore)
	case jobs.ParseModeScrapeJobs:
		labels := splitCSV(*scrapeJobs)
		if len(labels) == 0 {
			return fmt.Errorf("parse run: mode S requires --scrape-jobs")
		}
		inputs, err = parse.PackScrapeJobs(ctx, jobsStore, labels)
	case jobs.ParseModeFileList:
		list := splitCSV(*files)
		if len(list) == 0 {
			return fmt.Errorf("parse run: mode F requires --files")
		}
		inputs, err = parse.PackFileList(list)
	default:
		return fmt.Errorf("parse run: unknown mode %q", *mode)
	}
	if err != nil {
		return err
	}

	lbl := *label
	if lbl == "" {
		lbl = common.NewJobLabel("parse", time.Now())
	}
	date := time.Now().UTC().Format("2006-01-02")
	logPath := dd.ParseLogFileFor(lbl)

	job, err := parse.NewJob(ctx, jobsStore, lbl, *description, date, parseMode, dd.ParseDirFor(lbl), logPath, inputs)
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

	reg, err := loadRegistry(dd.Registries())
	if err != nil {
		return err
	}
	norm, err := loadNormalizer(dd.Registries(), cfg.ParseDefaults.PublisherSimilarity, cfg.ParseDefaults.JournalSimilarity)
	if err != nil {
		return err
	}

	restart := jobs.FromScratch
	if *restartMode == "resume" {
		restart = jobs.Resume
	}

	opts := parse.RunOptions{RestartMode: restart, NoScrapeMark: *noScrapeMark}
	if err := parse.Run(ctx, jobsStore, job, reg, norm, consumer, opts); err != nil {
		return err
	}

	snap, err := job.Snapshot(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("label", lbl).Str("status", string(snap.Status)).
		Int("successes", snap.Successes).Int("fails", snap.Fails).
		Msg("parse job finished")
	return nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
