package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenPubsDB(arbor.NewLogger(), filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, arbor.NewLogger())
}

func samplePub(doi string) Row {
	return Row{
		"doi": doi, "received": "2021-01-01", "accepted": "2021-01-02",
		"published": "2021-01-08", "duration": "7", "publisher": "Nature",
		"journal": "Nature", "title": "A Paper", "affiliations": "",
		"normalized_publisher": "Nature", "normalized_journal": "Nature",
		"normalized_received": "2021-01-01", "normalized_accepted": "2021-01-02",
		"normalized_published": "2021-01-08",
	}
}

func TestAddEntryAndGetByKey(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AddEntry(ctx, TablePub, samplePub("10.1/a")))

	row, err := st.GetByKey(ctx, TablePub, Row{"doi": "10.1/a"})
	require.NoError(t, err)
	assert.Equal(t, "Nature", row["publisher"])
}

func TestGetByKeyNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.GetByKey(context.Background(), TablePub, Row{"doi": "10.1/missing"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddEntry(ctx, TablePub, samplePub("10.1/b")))

	ok, err := st.Exists(ctx, TablePub, Row{"doi": "10.1/b"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Exists(ctx, TablePub, Row{"doi": "10.1/nope"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertEntryReplaces(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddEntry(ctx, TablePub, samplePub("10.1/c")))

	updated := samplePub("10.1/c")
	updated["publisher"] = "Nature (corrected)"
	require.NoError(t, st.UpsertEntry(ctx, TablePub, updated))

	row, err := st.GetByKey(ctx, TablePub, Row{"doi": "10.1/c"})
	require.NoError(t, err)
	assert.Equal(t, "Nature (corrected)", row["publisher"])
}

func TestUpdateColumnNotFoundWhenRowMissing(t *testing.T) {
	st := newTestStore(t)
	err := st.UpdateColumn(context.Background(), TablePub, Row{"doi": "10.1/missing"}, "title", "x")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteEntry(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddEntry(ctx, TablePub, samplePub("10.1/d")))
	require.NoError(t, st.DeleteEntry(ctx, TablePub, Row{"doi": "10.1/d"}))

	ok, err := st.Exists(ctx, TablePub, Row{"doi": "10.1/d"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchPredicatesCombinators(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddEntry(ctx, TablePub, samplePub("10.1/e")))
	row := samplePub("10.1/f")
	row["journal"] = "Science"
	require.NoError(t, st.AddEntry(ctx, TablePub, row))

	rows, err := st.SearchPredicates(ctx, TablePub, And, Predicate{Column: "journal", Value: "Nature"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = st.SearchPredicates(ctx, TablePub, Or,
		Predicate{Column: "journal", Value: "Nature"},
		Predicate{Column: "journal", Value: "Science"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSearchPredicatesRejectsUnregisteredColumn(t *testing.T) {
	st := newTestStore(t)
	_, err := st.SearchPredicates(context.Background(), TablePub, And,
		Predicate{Column: "doi; DROP TABLE pub", Value: "x"})
	assert.True(t, errors.Is(err, ErrInvariant))
}
