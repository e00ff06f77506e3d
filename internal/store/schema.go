// Package store provides the SQLite persistence layer: children, measurements,
// activities, the article index and admin sessions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/starford/sipekan/internal/apperr"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS balita (
	id            TEXT PRIMARY KEY,
	kode_balita   TEXT NOT NULL UNIQUE,
	nama          TEXT NOT NULL,
	nik           TEXT NOT NULL DEFAULT '',
	jenis_kelamin TEXT NOT NULL DEFAULT '',
	tanggal_lahir TEXT,
	nama_ibu      TEXT NOT NULL DEFAULT '',
	nama_ayah     TEXT NOT NULL DEFAULT '',
	alamat        TEXT NOT NULL DEFAULT '',
	posyandu      TEXT NOT NULL DEFAULT '',
	berat_lahir   REAL,
	tinggi_lahir  REAL,
	status_gizi   TEXT NOT NULL DEFAULT 'Normal',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_balita_tanggal_lahir ON balita(tanggal_lahir);
CREATE INDEX IF NOT EXISTS idx_balita_status ON balita(status_gizi);

CREATE TABLE IF NOT EXISTS kode_sequences (
	birth_date TEXT PRIMARY KEY,
	last       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pemeriksaan (
	id             TEXT PRIMARY KEY,
	balita_id      TEXT NOT NULL REFERENCES balita(id) ON DELETE CASCADE,
	tanggal        TEXT NOT NULL,
	pengukuran_ke  INTEGER NOT NULL DEFAULT 1,
	usia_bulan     INTEGER NOT NULL DEFAULT 0,
	berat_badan    REAL,
	tinggi_badan   REAL,
	lingkar_lengan REAL,
	lingkar_kepala REAL,
	status_gizi    TEXT NOT NULL DEFAULT 'Normal',
	catatan        TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pemeriksaan_balita ON pemeriksaan(balita_id, tanggal);
CREATE INDEX IF NOT EXISTS idx_pemeriksaan_tanggal ON pemeriksaan(tanggal);

CREATE TABLE IF NOT EXISTS kegiatan (
	id               TEXT PRIMARY KEY,
	judul            TEXT NOT NULL,
	deskripsi        TEXT NOT NULL DEFAULT '',
	tanggal_waktu    DATETIME NOT NULL,
	lokasi_posyandu  TEXT NOT NULL DEFAULT '',
	kategori         TEXT NOT NULL DEFAULT 'imunisasi',
	penanggung_jawab TEXT NOT NULL DEFAULT '',
	lokasi           TEXT NOT NULL DEFAULT '',
	target_peserta   TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'Terjadwal',
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_kegiatan_tanggal ON kegiatan(tanggal_waktu);

CREATE TABLE IF NOT EXISTS berita (
	slug       TEXT PRIMARY KEY,
	path       TEXT NOT NULL UNIQUE,
	judul      TEXT NOT NULL DEFAULT '',
	ringkasan  TEXT NOT NULL DEFAULT '',
	isi        TEXT NOT NULL DEFAULT '',
	kategori   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'draft',
	tanggal    TEXT,
	checksum   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS admins (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash BLOB NOT NULL,
	role          TEXT NOT NULL DEFAULT 'admin',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	admin_id   TEXT NOT NULL REFERENCES admins(id) ON DELETE CASCADE,
	expires_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// DB wraps an sqlx handle with Sipekan's queries.
type DB struct {
	conn *sqlx.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// Transactions take the write lock up front (_txlock=immediate) so that
// concurrent child registrations serialise on the sequence counter.
func Open(dsn string) (*DB, error) {
	conn, err := sqlx.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// mapErr translates driver errors into apperr sentinels.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: %s: %w", op, apperr.ErrNotFound)
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("store: %s: %w", op, apperr.ErrConflict)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("store: %s: %w", op, apperr.ErrNotFound)
		}
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

// checkAffected turns a zero-row update or delete into ErrNotFound.
func checkAffected(op string, res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: %s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
