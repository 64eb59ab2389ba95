package commit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ovcarj/appeer/internal/jobs"
	"github.com/ovcarj/appeer/internal/store"
)

func newTestPubsStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	db, err := store.OpenPubsDB(arbor.NewLogger(), filepath.Join(dir, "pubs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.NewStore(db, arbor.NewLogger())
}

func TestApplyPolicyNewDOI(t *testing.T) {
	st := newTestPubsStore(t)
	ctx := context.Background()

	snap := jobs.CommitActionSnapshot{
		DOI: "10.1038/s41586-021-00001-1", Publisher: "Nature", Journal: "Nature",
		Received: "2021-01-01", Published: "2021-01-08",
	}

	result, err := applyPolicy(ctx, st, snap, false)
	require.NoError(t, err)
	assert.True(t, result.success)
	assert.True(t, result.passed)
	assert.False(t, result.duplicate)

	exists, err := st.Exists(ctx, store.TablePub, store.Row{"doi": snap.DOI})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApplyPolicyDuplicateRejected(t *testing.T) {
	st := newTestPubsStore(t)
	ctx := context.Background()

	snap := jobs.CommitActionSnapshot{DOI: "10.1038/dup", Publisher: "Nature", Journal: "Nature"}
	_, err := applyPolicy(ctx, st, snap, false)
	require.NoError(t, err)

	snap2 := jobs.CommitActionSnapshot{DOI: "10.1038/dup", Publisher: "Nature (reprint)", Journal: "Nature"}
	result, err := applyPolicy(ctx, st, snap2, false)
	require.NoError(t, err)
	assert.True(t, result.success, "a rejected duplicate is still a successful action")
	assert.False(t, result.passed)
	assert.True(t, result.duplicate)

	row, err := st.GetByKey(ctx, store.TablePub, store.Row{"doi": "10.1038/dup"})
	require.NoError(t, err)
	assert.Equal(t, "Nature", row["publisher"], "rejected duplicate must not overwrite the existing row")
}

func TestApplyPolicyDuplicateOverwritten(t *testing.T) {
	st := newTestPubsStore(t)
	ctx := context.Background()

	snap := jobs.CommitActionSnapshot{DOI: "10.1038/dup", Publisher: "Nature", Journal: "Nature"}
	_, err := applyPolicy(ctx, st, snap, false)
	require.NoError(t, err)

	snap2 := jobs.CommitActionSnapshot{DOI: "10.1038/dup", Publisher: "Nature (corrected)", Journal: "Nature"}
	result, err := applyPolicy(ctx, st, snap2, true)
	require.NoError(t, err)
	assert.True(t, result.success)
	assert.True(t, result.passed)
	assert.True(t, result.duplicate)

	row, err := st.GetByKey(ctx, store.TablePub, store.Row{"doi": "10.1038/dup"})
	require.NoError(t, err)
	assert.Equal(t, "Nature (corrected)", row["publisher"], "overwrite=true must replace the existing row")
}

func TestApplyPolicyEmptyDOI(t *testing.T) {
	st := newTestPubsStore(t)
	result, err := applyPolicy(context.Background(), st, jobs.CommitActionSnapshot{}, false)
	require.NoError(t, err)
	assert.False(t, result.success, "an action with no DOI cannot be committed")
}
