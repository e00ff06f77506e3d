package store

import (
	"context"
	"time"

	"github.com/starford/sipekan/internal/models"
)

const pemeriksaanColumns = `id, balita_id, tanggal, pengukuran_ke, usia_bulan, berat_badan, tinggi_badan,
	lingkar_lengan, lingkar_kepala, status_gizi, catatan, created_at`

// CreatePemeriksaan inserts a measurement. The child must exist.
func (db *DB) CreatePemeriksaan(ctx context.Context, p *models.Pemeriksaan) error {
	p.CreatedAt = time.Now().UTC()
	_, err := db.conn.NamedExecContext(ctx, `
		INSERT INTO pemeriksaan (`+pemeriksaanColumns+`)
		VALUES (:id, :balita_id, :tanggal, :pengukuran_ke, :usia_bulan, :berat_badan, :tinggi_badan,
			:lingkar_lengan, :lingkar_kepala, :status_gizi, :catatan, :created_at)
	`, p)
	return mapErr("insert pemeriksaan", err)
}

// GetPemeriksaan returns one measurement.
func (db *DB) GetPemeriksaan(ctx context.Context, id string) (*models.Pemeriksaan, error) {
	var p models.Pemeriksaan
	if err := db.conn.GetContext(ctx, &p, `SELECT `+pemeriksaanColumns+` FROM pemeriksaan WHERE id = ?`, id); err != nil {
		return nil, mapErr("get pemeriksaan", err)
	}
	return &p, nil
}

// UpdatePemeriksaan rewrites a measurement in place.
func (db *DB) UpdatePemeriksaan(ctx context.Context, p *models.Pemeriksaan) error {
	res, err := db.conn.NamedExecContext(ctx, `
		UPDATE pemeriksaan SET
			tanggal        = :tanggal,
			pengukuran_ke  = :pengukuran_ke,
			usia_bulan     = :usia_bulan,
			berat_badan    = :berat_badan,
			tinggi_badan   = :tinggi_badan,
			lingkar_lengan = :lingkar_lengan,
			lingkar_kepala = :lingkar_kepala,
			status_gizi    = :status_gizi,
			catatan        = :catatan
		WHERE id = :id
	`, p)
	if err != nil {
		return mapErr("update pemeriksaan", err)
	}
	return checkAffected("update pemeriksaan", res)
}

// DeletePemeriksaan removes a measurement.
func (db *DB) DeletePemeriksaan(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM pemeriksaan WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete pemeriksaan", err)
	}
	return checkAffected("delete pemeriksaan", res)
}

// ListPemeriksaanByBalita returns a child's measurements ordered by date,
// newest first unless ascending is set.
func (db *DB) ListPemeriksaanByBalita(ctx context.Context, balitaID string, ascending bool) ([]models.Pemeriksaan, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	out := []models.Pemeriksaan{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+pemeriksaanColumns+` FROM pemeriksaan WHERE balita_id = ?
		 ORDER BY tanggal `+order+`, pengukuran_ke `+order+`, created_at `+order,
		balitaID)
	if err != nil {
		return nil, mapErr("list pemeriksaan", err)
	}
	return out, nil
}

// LatestPemeriksaan returns the most recent measurement of a child, or
// apperr.ErrNotFound when the child has none.
func (db *DB) LatestPemeriksaan(ctx context.Context, balitaID string) (*models.Pemeriksaan, error) {
	var p models.Pemeriksaan
	err := db.conn.GetContext(ctx, &p,
		`SELECT `+pemeriksaanColumns+` FROM pemeriksaan WHERE balita_id = ?
		 ORDER BY tanggal DESC, pengukuran_ke DESC, created_at DESC LIMIT 1`, balitaID)
	if err != nil {
		return nil, mapErr("latest pemeriksaan", err)
	}
	return &p, nil
}

// CountPemeriksaanByBalita counts the measurements of one child.
func (db *DB) CountPemeriksaanByBalita(ctx context.Context, balitaID string) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT count(*) FROM pemeriksaan WHERE balita_id = ?`, balitaID); err != nil {
		return 0, mapErr("count pemeriksaan", err)
	}
	return n, nil
}

// CountPemeriksaan counts every measurement.
func (db *DB) CountPemeriksaan(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT count(*) FROM pemeriksaan`); err != nil {
		return 0, mapErr("count pemeriksaan", err)
	}
	return n, nil
}

// ListPemeriksaanBetween returns measurements dated within [from, to].
func (db *DB) ListPemeriksaanBetween(ctx context.Context, from, to models.Date) ([]models.Pemeriksaan, error) {
	out := []models.Pemeriksaan{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+pemeriksaanColumns+` FROM pemeriksaan WHERE tanggal >= ? AND tanggal <= ? ORDER BY tanggal DESC`,
		from, to)
	if err != nil {
		return nil, mapErr("list pemeriksaan between", err)
	}
	return out, nil
}
