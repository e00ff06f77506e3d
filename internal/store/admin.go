package store

import (
	"context"
	"time"

	"github.com/starford/sipekan/internal/models"
)

// CreateAdmin inserts an admin account. A duplicate email yields
// apperr.ErrConflict.
func (db *DB) CreateAdmin(ctx context.Context, a *models.Admin) error {
	a.CreatedAt = time.Now().UTC()
	_, err := db.conn.NamedExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash, role, created_at)
		VALUES (:id, :email, :password_hash, :role, :created_at)
	`, a)
	return mapErr("insert admin", err)
}

// GetAdminByEmail looks an admin up by email, ignoring case.
func (db *DB) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := db.conn.GetContext(ctx, &a,
		`SELECT id, email, password_hash, role, created_at FROM admins WHERE email = ?`, email)
	if err != nil {
		return nil, mapErr("get admin", err)
	}
	return &a, nil
}

// GetAdmin looks an admin up by ID.
func (db *DB) GetAdmin(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	err := db.conn.GetContext(ctx, &a,
		`SELECT id, email, password_hash, role, created_at FROM admins WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr("get admin", err)
	}
	return &a, nil
}

// CreateSession stores an issued login token.
func (db *DB) CreateSession(ctx context.Context, s *models.Session) error {
	s.CreatedAt = time.Now().UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	_, err := db.conn.NamedExecContext(ctx, `
		INSERT INTO sessions (token, admin_id, expires_at, created_at)
		VALUES (:token, :admin_id, :expires_at, :created_at)
	`, s)
	return mapErr("insert session", err)
}

// GetSession returns a session that is still valid at now.
func (db *DB) GetSession(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	var s models.Session
	err := db.conn.GetContext(ctx, &s,
		`SELECT token, admin_id, expires_at, created_at FROM sessions WHERE token = ? AND expires_at > ?`,
		token, now.UTC())
	if err != nil {
		return nil, mapErr("get session", err)
	}
	return &s, nil
}

// DeleteSession revokes a token. Unknown tokens are ignored.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return mapErr("delete session", err)
}

// DeleteExpiredSessions purges sessions that expired before now.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, mapErr("purge sessions", err)
	}
	return res.RowsAffected()
}
