package store

import (
	"context"
	"time"

	"github.com/starford/sipekan/internal/models"
)

const kegiatanColumns = `id, judul, deskripsi, tanggal_waktu, lokasi_posyandu, kategori, penanggung_jawab,
	lokasi, target_peserta, status, created_at, updated_at`

// KegiatanFilter narrows ListKegiatan.
type KegiatanFilter struct {
	Status   string
	Kategori string
	Limit    int
}

// CreateKegiatan inserts an activity.
func (db *DB) CreateKegiatan(ctx context.Context, k *models.Kegiatan) error {
	now := time.Now().UTC()
	k.TanggalWaktu = k.TanggalWaktu.UTC()
	k.CreatedAt = now
	k.UpdatedAt = now
	_, err := db.conn.NamedExecContext(ctx, `
		INSERT INTO kegiatan (`+kegiatanColumns+`)
		VALUES (:id, :judul, :deskripsi, :tanggal_waktu, :lokasi_posyandu, :kategori, :penanggung_jawab,
			:lokasi, :target_peserta, :status, :created_at, :updated_at)
	`, k)
	return mapErr("insert kegiatan", err)
}

// GetKegiatan returns one activity.
func (db *DB) GetKegiatan(ctx context.Context, id string) (*models.Kegiatan, error) {
	var k models.Kegiatan
	if err := db.conn.GetContext(ctx, &k, `SELECT `+kegiatanColumns+` FROM kegiatan WHERE id = ?`, id); err != nil {
		return nil, mapErr("get kegiatan", err)
	}
	return &k, nil
}

// UpdateKegiatan rewrites an activity.
func (db *DB) UpdateKegiatan(ctx context.Context, k *models.Kegiatan) error {
	k.TanggalWaktu = k.TanggalWaktu.UTC()
	k.UpdatedAt = time.Now().UTC()
	res, err := db.conn.NamedExecContext(ctx, `
		UPDATE kegiatan SET
			judul            = :judul,
			deskripsi        = :deskripsi,
			tanggal_waktu    = :tanggal_waktu,
			lokasi_posyandu  = :lokasi_posyandu,
			kategori         = :kategori,
			penanggung_jawab = :penanggung_jawab,
			lokasi           = :lokasi,
			target_peserta   = :target_peserta,
			status           = :status,
			updated_at       = :updated_at
		WHERE id = :id
	`, k)
	if err != nil {
		return mapErr("update kegiatan", err)
	}
	return checkAffected("update kegiatan", res)
}

// DeleteKegiatan removes an activity.
func (db *DB) DeleteKegiatan(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM kegiatan WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete kegiatan", err)
	}
	return checkAffected("delete kegiatan", res)
}

// ListKegiatan returns activities, latest schedule first.
func (db *DB) ListKegiatan(ctx context.Context, f KegiatanFilter) ([]models.Kegiatan, error) {
	q := `SELECT ` + kegiatanColumns + ` FROM kegiatan WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Kategori != "" {
		q += ` AND kategori = ?`
		args = append(args, f.Kategori)
	}
	q += ` ORDER BY tanggal_waktu DESC LIMIT ?`
	args = append(args, clampLimit(f.Limit))

	out := []models.Kegiatan{}
	if err := db.conn.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, mapErr("list kegiatan", err)
	}
	return out, nil
}

// UpcomingKegiatan returns activities scheduled at or after from that have not
// finished, soonest first.
func (db *DB) UpcomingKegiatan(ctx context.Context, from time.Time, limit int) ([]models.Kegiatan, error) {
	if limit <= 0 {
		limit = 5
	}
	out := []models.Kegiatan{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+kegiatanColumns+` FROM kegiatan
		 WHERE status != ? AND tanggal_waktu >= ?
		 ORDER BY tanggal_waktu ASC LIMIT ?`,
		models.KegiatanSelesai, from.UTC(), clampLimit(limit))
	if err != nil {
		return nil, mapErr("upcoming kegiatan", err)
	}
	return out, nil
}

// SearchKegiatan matches activity titles by substring, case-insensitively.
func (db *DB) SearchKegiatan(ctx context.Context, query string, limit int) ([]models.Kegiatan, error) {
	out := []models.Kegiatan{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+kegiatanColumns+` FROM kegiatan WHERE judul LIKE ? ESCAPE '\'
		 ORDER BY tanggal_waktu DESC LIMIT ?`,
		likePattern(query), clampLimit(limit))
	if err != nil {
		return nil, mapErr("search kegiatan", err)
	}
	return out, nil
}

// ListKegiatanBetween returns activities scheduled within [from, to).
func (db *DB) ListKegiatanBetween(ctx context.Context, from, to time.Time) ([]models.Kegiatan, error) {
	out := []models.Kegiatan{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+kegiatanColumns+` FROM kegiatan WHERE tanggal_waktu >= ? AND tanggal_waktu < ?
		 ORDER BY tanggal_waktu DESC`,
		from.UTC(), to.UTC())
	if err != nil {
		return nil, mapErr("list kegiatan between", err)
	}
	return out, nil
}

// KegiatanCreatedSince returns activities created at or after since.
func (db *DB) KegiatanCreatedSince(ctx context.Context, since time.Time) ([]models.Kegiatan, error) {
	out := []models.Kegiatan{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+kegiatanColumns+` FROM kegiatan WHERE created_at >= ? ORDER BY created_at DESC`,
		since.UTC())
	if err != nil {
		return nil, mapErr("kegiatan since", err)
	}
	return out, nil
}

// CountKegiatan counts every activity.
func (db *DB) CountKegiatan(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT count(*) FROM kegiatan`); err != nil {
		return 0, mapErr("count kegiatan", err)
	}
	return n, nil
}
