package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/starford/sipekan/internal/models"
)

const beritaColumns = `slug, path, judul, ringkasan, isi, kategori, status, tanggal, checksum, created_at, updated_at`

// BeritaFilter narrows ListBerita.
type BeritaFilter struct {
	Status   string
	Kategori string
	Limit    int
}

// UpsertBerita inserts or replaces the index row of an article file. The
// first created_at of a slug is kept and read back into b.
func (db *DB) UpsertBerita(ctx context.Context, b *models.Berita) error {
	now := time.Now().UTC()
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	_, err := db.conn.NamedExecContext(ctx, `
		INSERT INTO berita (`+beritaColumns+`)
		VALUES (:slug, :path, :judul, :ringkasan, :isi, :kategori, :status, :tanggal, :checksum, :created_at, :updated_at)
		ON CONFLICT(slug) DO UPDATE SET
			path       = excluded.path,
			judul      = excluded.judul,
			ringkasan  = excluded.ringkasan,
			isi        = excluded.isi,
			kategori   = excluded.kategori,
			status     = excluded.status,
			tanggal    = excluded.tanggal,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, b)
	if err != nil {
		return mapErr("upsert berita", err)
	}
	err = db.conn.GetContext(ctx, &b.CreatedAt, `SELECT created_at FROM berita WHERE slug = ?`, b.Slug)
	return mapErr("upsert berita", err)
}

// DeleteBeritaByPath removes the index row for a content file. Missing rows
// are not an error.
func (db *DB) DeleteBeritaByPath(ctx context.Context, path string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM berita WHERE path = ?`, path)
	return mapErr("delete berita", err)
}

// GetBerita returns one indexed article.
func (db *DB) GetBerita(ctx context.Context, slug string) (*models.Berita, error) {
	var b models.Berita
	if err := db.conn.GetContext(ctx, &b, `SELECT `+beritaColumns+` FROM berita WHERE slug = ?`, slug); err != nil {
		return nil, mapErr("get berita", err)
	}
	return &b, nil
}

// ListBerita returns articles, newest date first.
func (db *DB) ListBerita(ctx context.Context, f BeritaFilter) ([]models.Berita, error) {
	q := `SELECT ` + beritaColumns + ` FROM berita WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Kategori != "" {
		q += ` AND kategori = ?`
		args = append(args, f.Kategori)
	}
	q += ` ORDER BY tanggal DESC, updated_at DESC LIMIT ?`
	args = append(args, clampLimit(f.Limit))

	out := []models.Berita{}
	if err := db.conn.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, mapErr("list berita", err)
	}
	return out, nil
}

// SearchBerita matches title or body by substring within one status. An empty
// status searches every article.
func (db *DB) SearchBerita(ctx context.Context, query, status string, limit int) ([]models.Berita, error) {
	like := likePattern(query)
	q := `SELECT ` + beritaColumns + ` FROM berita WHERE (judul LIKE ? ESCAPE '\' OR isi LIKE ? ESCAPE '\')`
	args := []any{like, like}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY tanggal DESC LIMIT ?`
	args = append(args, clampLimit(limit))

	out := []models.Berita{}
	if err := db.conn.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, mapErr("search berita", err)
	}
	return out, nil
}

// AllBeritaChecksums maps every indexed content path to its checksum.
func (db *DB) AllBeritaChecksums(ctx context.Context) (map[string]string, error) {
	rows, err := db.conn.QueryxContext(ctx, `SELECT path, checksum FROM berita`)
	if err != nil {
		return nil, mapErr("all checksums", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// CountBerita counts articles with the given status; empty counts all.
func (db *DB) CountBerita(ctx context.Context, status string) (int, error) {
	q := `SELECT count(*) FROM berita`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	var n int
	if err := db.conn.GetContext(ctx, &n, q, args...); err != nil {
		return 0, mapErr("count berita", err)
	}
	return n, nil
}

// BeritaUpdatedSince returns articles whose index row changed at or after since.
func (db *DB) BeritaUpdatedSince(ctx context.Context, since time.Time) ([]models.Berita, error) {
	out := []models.Berita{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+beritaColumns+` FROM berita WHERE updated_at >= ? ORDER BY updated_at DESC`, since.UTC())
	if err != nil {
		return nil, mapErr("berita since", err)
	}
	return out, nil
}

// BeritaCreatedSince returns articles first indexed at or after since.
func (db *DB) BeritaCreatedSince(ctx context.Context, since time.Time) ([]models.Berita, error) {
	out := []models.Berita{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+beritaColumns+` FROM berita WHERE created_at >= ? ORDER BY created_at DESC`, since.UTC())
	if err != nil {
		return nil, mapErr("berita since", err)
	}
	return out, nil
}

// BeritaChecksum returns the indexed checksum of a content path, or "" when
// the path is not indexed.
func (db *DB) BeritaChecksum(ctx context.Context, path string) (string, error) {
	var cs string
	err := db.conn.GetContext(ctx, &cs, `SELECT checksum FROM berita WHERE path = ?`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", mapErr("berita checksum", err)
	}
	return cs, nil
}
