//go:build !sqlite_fts5

package store

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/starford/sipekan/internal/models"
)

func initFTS(_ *sqlx.DB) error {
	// FTS5 not compiled in; SearchBalita falls back to LIKE on the balita table.
	return nil
}

func ftsUpsertBalita(_ context.Context, _ *sqlx.Tx, _, _, _ string) error {
	return nil
}

func ftsDeleteBalita(_ context.Context, _ *sqlx.Tx, _ string) {}

// SearchBalita finds children whose name or code contains query.
func (db *DB) SearchBalita(ctx context.Context, query string, limit int) ([]models.Balita, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Balita{}, nil
	}
	return db.searchBalitaLike(ctx, query, limit)
}
