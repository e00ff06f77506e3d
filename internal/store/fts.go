package store

import (
	"context"
	"strings"

	"github.com/starford/sipekan/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps q for a substring LIKE match with ESCAPE '\'.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(q)) + "%"
}

// searchBalitaLike matches query anywhere in the name or code.
func (db *DB) searchBalitaLike(ctx context.Context, query string, limit int) ([]models.Balita, error) {
	out := []models.Balita{}
	like := likePattern(query)
	err := db.conn.SelectContext(ctx, &out, `
		SELECT `+balitaColumns+` FROM balita
		WHERE nama LIKE ? ESCAPE '\' OR kode_balita LIKE ? ESCAPE '\'
		ORDER BY created_at DESC
		LIMIT ?
	`, like, like, clampLimit(limit))
	if err != nil {
		return nil, mapErr("search balita", err)
	}
	return out, nil
}
