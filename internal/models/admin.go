package models

import "time"

// RoleAdmin is the only role the admin panel knows about.
const RoleAdmin = "admin"

// Admin is a posyandu staff account allowed into the admin API.
type Admin struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Session is an issued admin login token.
type Session struct {
	Token     string    `db:"token" json:"token"`
	AdminID   string    `db:"admin_id" json:"admin_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
