package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ovcarj/appeer/internal/store"
)

func newTestJobsStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	db, err := store.OpenJobsDB(arbor.NewLogger(), filepath.Join(dir, "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.NewStore(db, arbor.NewLogger())
}

func TestNewScrapeJobLifecycle(t *testing.T) {
	st := newTestJobsStore(t)
	ctx := context.Background()

	job, err := NewScrapeJob(ctx, st, "scrape-1", "test run", "2026-08-01", "/tmp/dl", "/tmp/dl.zip", "/tmp/dl.log", 2)
	require.NoError(t, err)

	snap, err := job.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusInitialized, snap.Status)
	assert.Equal(t, 2, snap.NoOfPublications)
	assert.False(t, snap.Parsed)

	require.NoError(t, job.SetStatus(ctx, StatusRunning))
	require.NoError(t, job.SetStep(ctx, 1))
	require.NoError(t, job.SetSuccesses(ctx, 1))
	require.NoError(t, job.SetParsed(ctx, true))

	snap, err = job.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, snap.Status)
	assert.Equal(t, 1, snap.Step)
	assert.Equal(t, 1, snap.Successes)
	assert.True(t, snap.Parsed)
}

func TestNewScrapeJobDuplicateLabelRejected(t *testing.T) {
	st := newTestJobsStore(t)
	ctx := context.Background()

	_, err := NewScrapeJob(ctx, st, "dup", "", "2026-08-01", "", "", "", 0)
	require.NoError(t, err)

	_, err = NewScrapeJob(ctx, st, "dup", "", "2026-08-01", "", "", "", 0)
	assert.True(t, errors.Is(err, store.ErrInvariant))
}

func TestReadScrapeJobMissingReturnsNil(t *testing.T) {
	st := newTestJobsStore(t)
	snap, err := ReadScrapeJob(context.Background(), st, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestListScrapeJobLabelsByStatus(t *testing.T) {
	st := newTestJobsStore(t)
	ctx := context.Background()

	_, err := NewScrapeJob(ctx, st, "a", "", "2026-08-01", "", "", "", 0)
	require.NoError(t, err)
	_, err = NewScrapeJob(ctx, st, "b", "", "2026-08-01", "", "", "", 0)
	require.NoError(t, err)

	labels, err := ListScrapeJobLabelsByStatus(ctx, st, StatusInitialized)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, labels)

	labels, err = ListScrapeJobLabelsByStatus(ctx, st, StatusExecuted)
	require.NoError(t, err)
	assert.Empty(t, labels)
}
