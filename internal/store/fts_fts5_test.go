//go:build sqlite_fts5

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var n int
	require.NoError(t, db.conn.Get(&n, `SELECT count(*) FROM balita_fts`))
}

func TestFTS5_PrefixAndCodeSearch(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	b := newBalita(t, db, "a", "Ahmad Rizki", "2025-01-13")
	newBalita(t, db, "b", "Siti Aminah", "2025-02-01")

	hits, err := db.SearchBalita(ctx, "Riz", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)

	hits, err = db.SearchBalita(ctx, b.KodeBalita, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
}

func TestFTS5_InfixFallsBackToSubstring(t *testing.T) {
	db := testDB(t)
	newBalita(t, db, "a", "Ari Ramadhan", "2023-06-15")

	hits, err := db.SearchBalita(context.Background(), "madhan", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
}

func TestFTS5_IndexFollowsUpdateAndDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	b := newBalita(t, db, "a", "Ahmad", "2025-01-13")

	b.Nama = "Bagas"
	require.NoError(t, db.UpdateBalita(ctx, b))
	hits, err := db.SearchBalita(ctx, "Ahmad", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
	hits, err = db.SearchBalita(ctx, "Bagas", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	require.NoError(t, db.DeleteBalita(ctx, "a"))
	hits, err = db.SearchBalita(ctx, "Bagas", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFTSQuery_QuotesTerms(t *testing.T) {
	assert.Equal(t, `"ahmad"* "riz"*`, ftsQuery(`ahmad riz`))
	assert.Equal(t, `"a""b"*`, ftsQuery(`a"b`))
}
