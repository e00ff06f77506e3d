package store

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/sipekan/internal/models"
)

const balitaColumns = `id, kode_balita, nama, nik, jenis_kelamin, tanggal_lahir, nama_ibu, nama_ayah,
	alamat, posyandu, berat_lahir, tinggi_lahir, status_gizi, created_at, updated_at`

// BalitaFilter narrows ListBalita. Zero values mean no filter and the default
// page size.
type BalitaFilter struct {
	Status string
	Limit  int
	Offset int
}

// CreateBalita inserts a child and assigns its code. The per-birth-date
// sequence is incremented inside the same transaction as the insert, so two
// registrations for the same date can never receive the same number. codeFor
// turns the allocated sequence into the stored code.
func (db *DB) CreateBalita(ctx context.Context, b *models.Balita, codeFor func(seq int) string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var seq int
	err = tx.GetContext(ctx, &seq, `
		INSERT INTO kode_sequences (birth_date, last) VALUES (?, 1)
		ON CONFLICT(birth_date) DO UPDATE SET last = last + 1
		RETURNING last
	`, b.TanggalLahir.String())
	if err != nil {
		return mapErr("allocate sequence", err)
	}

	now := time.Now().UTC()
	b.KodeBalita = codeFor(seq)
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO balita (`+balitaColumns+`)
		VALUES (:id, :kode_balita, :nama, :nik, :jenis_kelamin, :tanggal_lahir, :nama_ibu, :nama_ayah,
			:alamat, :posyandu, :berat_lahir, :tinggi_lahir, :status_gizi, :created_at, :updated_at)
	`, b)
	if err != nil {
		return mapErr("insert balita", err)
	}
	if err := ftsUpsertBalita(ctx, tx, b.ID, b.Nama, b.KodeBalita); err != nil {
		return err
	}
	return tx.Commit()
}

// GetBalita returns a child by ID.
func (db *DB) GetBalita(ctx context.Context, id string) (*models.Balita, error) {
	var b models.Balita
	if err := db.conn.GetContext(ctx, &b, `SELECT `+balitaColumns+` FROM balita WHERE id = ?`, id); err != nil {
		return nil, mapErr("get balita", err)
	}
	return &b, nil
}

// GetBalitaByKode returns a child by its exact code (case-insensitive).
func (db *DB) GetBalitaByKode(ctx context.Context, kode string) (*models.Balita, error) {
	var b models.Balita
	err := db.conn.GetContext(ctx, &b, `SELECT `+balitaColumns+` FROM balita WHERE kode_balita = ? COLLATE NOCASE`, kode)
	if err != nil {
		return nil, mapErr("get balita by kode", err)
	}
	return &b, nil
}

// UpdateBalita rewrites the mutable fields of a child. The code and creation
// time never change.
func (db *DB) UpdateBalita(ctx context.Context, b *models.Balita) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	b.UpdatedAt = time.Now().UTC()
	res, err := tx.NamedExecContext(ctx, `
		UPDATE balita SET
			nama          = :nama,
			nik           = :nik,
			jenis_kelamin = :jenis_kelamin,
			tanggal_lahir = :tanggal_lahir,
			nama_ibu      = :nama_ibu,
			nama_ayah     = :nama_ayah,
			alamat        = :alamat,
			posyandu      = :posyandu,
			berat_lahir   = :berat_lahir,
			tinggi_lahir  = :tinggi_lahir,
			status_gizi   = :status_gizi,
			updated_at    = :updated_at
		WHERE id = :id
	`, b)
	if err != nil {
		return mapErr("update balita", err)
	}
	if err := checkAffected("update balita", res); err != nil {
		return err
	}
	if err := ftsUpsertBalita(ctx, tx, b.ID, b.Nama, b.KodeBalita); err != nil {
		return err
	}
	return tx.Commit()
}

// SetBalitaStatus stores a new nutrition status label on a child.
func (db *DB) SetBalitaStatus(ctx context.Context, id, status string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE balita SET status_gizi = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return mapErr("set balita status", err)
	}
	return checkAffected("set balita status", res)
}

// DeleteBalita removes a child together with its measurements.
func (db *DB) DeleteBalita(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `DELETE FROM balita WHERE id = ?`, id)
	if err != nil {
		return mapErr("delete balita", err)
	}
	if err := checkAffected("delete balita", res); err != nil {
		return err
	}
	ftsDeleteBalita(ctx, tx, id)
	return tx.Commit()
}

// ListBalita returns one page of children, newest first, and the total count
// matching the filter.
func (db *DB) ListBalita(ctx context.Context, f BalitaFilter) ([]models.Balita, int, error) {
	where := ""
	args := []any{}
	if f.Status != "" {
		where = ` WHERE status_gizi = ? COLLATE NOCASE`
		args = append(args, f.Status)
	}

	var total int
	if err := db.conn.GetContext(ctx, &total, `SELECT count(*) FROM balita`+where, args...); err != nil {
		return nil, 0, mapErr("count balita", err)
	}

	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	out := []models.Balita{}
	err := db.conn.SelectContext(ctx, &out,
		`SELECT `+balitaColumns+` FROM balita`+where+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		append(args, clampLimit(f.Limit), offset)...)
	if err != nil {
		return nil, 0, mapErr("list balita", err)
	}
	return out, total, nil
}

// AllBalita returns every child. Used by the statistics aggregations.
func (db *DB) AllBalita(ctx context.Context) ([]models.Balita, error) {
	out := []models.Balita{}
	if err := db.conn.SelectContext(ctx, &out, `SELECT `+balitaColumns+` FROM balita ORDER BY created_at`); err != nil {
		return nil, mapErr("all balita", err)
	}
	return out, nil
}

// CountBalitaByStatus groups children by their stored status label.
func (db *DB) CountBalitaByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := db.conn.QueryxContext(ctx, `SELECT status_gizi, count(*) FROM balita GROUP BY status_gizi`)
	if err != nil {
		return nil, mapErr("count by status", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
