//go:build sqlite_fts5

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/starford/sipekan/internal/models"
)

func initFTS(conn *sqlx.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS balita_fts USING fts5(
			id UNINDEXED,
			nama,
			kode_balita,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsertBalita(ctx context.Context, tx *sqlx.Tx, id, nama, kode string) error {
	_, _ = tx.ExecContext(ctx, `DELETE FROM balita_fts WHERE id = ?`, id)
	_, err := tx.ExecContext(ctx, `INSERT INTO balita_fts (id, nama, kode_balita) VALUES (?, ?, ?)`, id, nama, kode)
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func ftsDeleteBalita(ctx context.Context, tx *sqlx.Tx, id string) {
	_, _ = tx.ExecContext(ctx, `DELETE FROM balita_fts WHERE id = ?`, id)
}

// ftsQuery turns free text into an FTS5 prefix query, one quoted term per
// word so that codes like 20250113-AR-001 are matched literally.
func ftsQuery(q string) string {
	words := strings.Fields(q)
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, `"`+strings.ReplaceAll(w, `"`, `""`)+`"*`)
	}
	return strings.Join(terms, " ")
}

// SearchBalita finds children by name or code using the FTS5 index. FTS5
// only matches word prefixes, so a query with no hits is retried as a
// substring match.
func (db *DB) SearchBalita(ctx context.Context, query string, limit int) ([]models.Balita, error) {
	match := ftsQuery(query)
	out := []models.Balita{}
	if match == "" {
		return out, nil
	}
	err := db.conn.SelectContext(ctx, &out, `
		SELECT `+prefixed("b", balitaColumns)+`
		FROM balita_fts f JOIN balita b ON b.id = f.id
		WHERE balita_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, clampLimit(limit))
	if err != nil {
		return nil, mapErr("search balita", err)
	}
	if len(out) == 0 {
		return db.searchBalitaLike(ctx, query, limit)
	}
	return out, nil
}

func prefixed(alias, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
