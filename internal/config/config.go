// Package config loads appeer's configuration from a TOML file with
// environment and CLI-flag overrides layered on top, in the same
// defaults-then-file-then-env-then-flag order the rest of the corpus uses
// for its larger configuration trees.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full resolved configuration for an appeer run.
type Config struct {
	Global         GlobalConfig         `toml:"global"`
	ScrapeDefaults ScrapeDefaultsConfig `toml:"scrape_defaults"`
	ParseDefaults  ParseDefaultsConfig  `toml:"parse_defaults"`
	Logging        LoggingConfig        `toml:"logging"`
}

type GlobalConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ScrapeDefaultsConfig struct {
	SleepTime            float64 `toml:"sleep_time"`
	MaxTries             int     `toml:"max_tries"`
	RetrySleepTime       float64 `toml:"retry_sleep_time"`
	FourTwentyNineMinute float64 `toml:"429_sleep_time"`
}

type ParseDefaultsConfig struct {
	PublisherSimilarity float64 `toml:"publisher_similarity"`
	JournalSimilarity   float64 `toml:"journal_similarity"`
}

type LoggingConfig struct {
	Level       string `toml:"level"`
	FileLogging bool   `toml:"file_logging"`
}

// NewDefaultConfig returns the built-in defaults, the base of the
// defaults -> file -> env -> flag precedence chain.
func NewDefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Global: GlobalConfig{
			DataDirectory: filepath.Join(home, ".appeer"),
		},
		ScrapeDefaults: ScrapeDefaultsConfig{
			SleepTime:            1.0,
			MaxTries:             3,
			RetrySleepTime:       10.0,
			FourTwentyNineMinute: 5.0,
		},
		ParseDefaults: ParseDefaultsConfig{
			PublisherSimilarity: 0.9,
			JournalSimilarity:   0.97,
		},
		Logging: LoggingConfig{
			Level:       "info",
			FileLogging: true,
		},
	}
}

// DefaultConfigPath returns the platform-standard user config file path.
func DefaultConfigPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		cfgDir = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgDir, "appeer", "config.toml")
}

// LoadFromFile merges a TOML file's contents on top of cfg. A missing file
// is not an error; every other read/decode error is.
func LoadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies APPEER_-prefixed environment variables on top
// of cfg, one variable per scalar field that is meaningful to override at
// deploy time.
func ApplyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APPEER_DATA_DIRECTORY"); v != "" {
		cfg.Global.DataDirectory = v
	}
	if v := os.Getenv("APPEER_SCRAPE_MAX_TRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("APPEER_SCRAPE_MAX_TRIES: %w", err)
		}
		cfg.ScrapeDefaults.MaxTries = n
	}
	if v := os.Getenv("APPEER_SCRAPE_SLEEP_TIME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("APPEER_SCRAPE_SLEEP_TIME: %w", err)
		}
		cfg.ScrapeDefaults.SleepTime = f
	}
	if v := os.Getenv("APPEER_SCRAPE_RETRY_SLEEP_TIME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("APPEER_SCRAPE_RETRY_SLEEP_TIME: %w", err)
		}
		cfg.ScrapeDefaults.RetrySleepTime = f
	}
	if v := os.Getenv("APPEER_SCRAPE_429_SLEEP_TIME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("APPEER_SCRAPE_429_SLEEP_TIME: %w", err)
		}
		cfg.ScrapeDefaults.FourTwentyNineMinute = f
	}
	if v := os.Getenv("APPEER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// FlagOverrides carries CLI-flag values that, when set, take the highest
// precedence over file and environment configuration.
type FlagOverrides struct {
	DataDirectory *string
	MaxTries      *int
	LogLevel      *string
}

// ApplyFlagOverrides applies any non-nil flag values on top of cfg.
func ApplyFlagOverrides(cfg *Config, flags FlagOverrides) {
	if flags.DataDirectory != nil && *flags.DataDirectory != "" {
		cfg.Global.DataDirectory = *flags.DataDirectory
	}
	if flags.MaxTries != nil {
		cfg.ScrapeDefaults.MaxTries = *flags.MaxTries
	}
	if flags.LogLevel != nil && *flags.LogLevel != "" {
		cfg.Logging.Level = *flags.LogLevel
	}
}

// Load resolves a Config through the full precedence chain:
// defaults -> config file -> environment -> CLI flags.
func Load(configPath string, flags FlagOverrides) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := LoadFromFile(cfg, configPath); err != nil {
		return nil, err
	}
	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	ApplyFlagOverrides(cfg, flags)
	return cfg, nil
}

// WriteDefault writes the built-in defaults to path as TOML, creating
// parent directories as needed. Used by `appeer config init`.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(NewDefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
