// Command appeer drives the scrape, parse, and commit stages of the
// publication metadata acquisition pipeline from the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ovcarj/appeer/internal/common"
	"github.com/ovcarj/appeer/internal/config"
	"github.com/ovcarj/appeer/internal/store"
)

var logger arbor.ILogger

// globalFlags carries flags shared by every subcommand; each subcommand's
// own flag.FlagSet is seeded with these before its subcommand-specific
// flags are defined, matching the defaults -> file -> env -> flag
// precedence internal/config.Load implements.
type globalFlags struct {
	configPath string
	dataDir    string
	logLevel   string
}

func bindGlobalFlags(fs *flag.FlagSet, g *globalFlags) {
	fs.StringVar(&g.configPath, "config", "", "path to config.toml (defaults to the platform config dir)")
	fs.StringVar(&g.dataDir, "data-dir", "", "override the configured data directory")
	fs.StringVar(&g.logLevel, "log-level", "", "override the configured log level")
}

func (g *globalFlags) load() (*config.Config, error) {
	path := g.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	var dataDir, logLevel *string
	if g.dataDir != "" {
		dataDir = &g.dataDir
	}
	if g.logLevel != "" {
		logLevel = &g.logLevel
	}
	return config.Load(path, config.FlagOverrides{DataDirectory: dataDir, LogLevel: logLevel})
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "scrape":
		err = runScrape(os.Args[2:])
	case "parse":
		err = runParse(os.Args[2:])
	case "commit":
		err = runCommit(os.Args[2:])
	case "status":
		err = runStatus(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "appeer: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		if logger != nil {
			logger.Error().Err(err).Msg("command failed")
		} else {
			fmt.Fprintf(os.Stderr, "appeer: %v\n", err)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: appeer <command> [flags]

commands:
  scrape run      fetch planned URLs into a new scrape job
  parse run       extract metadata from scraped (or arbitrary) files
  commit run      commit parsed metadata into the publications database
  status jobs     list scrape/parse/commit jobs and their status
  status pub      list committed publications
  config print    print the resolved configuration
  config init     write the default configuration file`)
}

// openStores opens both SQLite databases under cfg's data directory and
// returns the registry-gated store wrapping each, plus the resolved
// Datadir. Callers are responsible for closing the returned stores' DBs.
func openStores(cfg *config.Config) (*config.Datadir, *store.Store, *store.Store, error) {
	dd := config.NewDatadir(cfg.Global.DataDirectory)
	if err := dd.CreateDirectories(); err != nil {
		return nil, nil, nil, fmt.Errorf("create data directories: %w", err)
	}

	jobsDB, err := store.OpenJobsDB(logger, dd.JobsDBPath())
	if err != nil {
		return nil, nil, nil, err
	}
	pubsDB, err := store.OpenPubsDB(logger, dd.PubsDBPath())
	if err != nil {
		return nil, nil, nil, err
	}

	return dd, store.NewStore(jobsDB, logger), store.NewStore(pubsDB, logger), nil
}

func initLogger(cfg *config.Config) {
	logger = common.SetupProcessLogger(cfg.Logging.Level, cfg.Global.DataDirectory, cfg.Logging.FileLogging)
}
