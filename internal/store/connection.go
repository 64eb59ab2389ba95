package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"
)

// DB wraps a single-connection SQLite database: one *sql.DB restricted to
// MaxOpenConns(1), matching the rest of the corpus's SQLite wrapper, since
// SQLite does not handle concurrent writers well.
type DB struct {
	db     *sql.DB
	logger arbor.ILogger
}

// Open opens (creating if necessary) the SQLite database at path, applies
// pragma tuning, and runs schemaSQL against it.
func Open(logger arbor.ILogger, path string, schemaSQL string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: create database directory: %v", ErrFatal, err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrFatal, err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	d := &DB{db: sqlDB, logger: logger}

	if err := d.configure(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: configure database: %v", ErrFatal, err)
	}

	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: initialize schema: %v", ErrFatal, err)
	}

	logger.Info().Str("path", path).Msg("sqlite database ready")
	return d, nil
}

func (d *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA cache_size = -16000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := d.db.Exec(p); err != nil {
			return fmt.Errorf("exec %s: %w", p, err)
		}
	}
	return nil
}

// OpenJobsDB opens the jobs database (scrape_jobs/scrapes/parse_jobs/
// parses/commit_jobs/commits) at path, creating its schema if needed.
func OpenJobsDB(logger arbor.ILogger, path string) (*DB, error) {
	return Open(logger, path, jobsSchemaSQL)
}

// OpenPubsDB opens the committed-publications database (pub) at path,
// creating its schema if needed.
func OpenPubsDB(logger arbor.ILogger, path string) (*DB, error) {
	return Open(logger, path, pubsSchemaSQL)
}

func (d *DB) SQL() *sql.DB { return d.db }

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// busyRetry retries fn a bounded number of times with jittered exponential
// backoff when SQLite reports SQLITE_BUSY/SQLITE_LOCKED, the same pattern
// the corpus's SQLite storage layer applies around single-writer
// contention. Any other error is returned immediately.
func busyRetry(ctx context.Context, logger arbor.ILogger, fn func() error) error {
	const maxAttempts = 5
	backoff := 20 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isBusyError(lastErr) {
			return lastErr
		}
		if attempt == maxAttempts-1 {
			break
		}
		jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
		sleep := backoff + jitter
		logger.Debug().Int("attempt", attempt+1).Dur("backoff", sleep).Err(lastErr).
			Msg("sqlite busy, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}
	return fmt.Errorf("exhausted retries on busy database: %w", lastErr)
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "database table is locked") || strings.Contains(msg, "sqlite_locked")
}
