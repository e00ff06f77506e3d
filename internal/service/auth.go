package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/starford/sipekan/internal/apperr"
	"github.com/starford/sipekan/internal/models"
)

// MinPasswordLength is enforced when admin accounts are created.
const MinPasswordLength = 8

// LoginResult is returned to the admin panel after a successful login.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Admin     *models.Admin `json:"admin"`
}

// CreateAdmin registers a staff account with a bcrypt password hash.
func (s *Service) CreateAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.EmailFormat),
		"password": validation.Validate(password, validation.Required, validation.RuneLength(MinPasswordLength, 0)),
	}.Filter()
	if err != nil {
		return nil, apperr.Validation(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &models.Admin{ID: newID(), Email: email, PasswordHash: hash, Role: models.RoleAdmin}
	if err := s.db.CreateAdmin(ctx, a); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("admin %s: %w", email, apperr.ErrAlreadyExists)
		}
		return nil, err
	}
	s.logger.Info("admin created", "email", email)
	return a, nil
}

// Login checks credentials and issues a session token. Unknown emails and
// wrong passwords both yield apperr.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.ErrUnauthorized
	}
	a, err := s.db.GetAdminByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		s.logger.Warn("login rejected", "email", email)
		return nil, apperr.ErrUnauthorized
	}

	sess := &models.Session{
		Token:     newToken(),
		AdminID:   a.ID,
		ExpiresAt: s.now().Add(s.sessionTTL).UTC(),
	}
	if err := s.db.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return &LoginResult{Token: sess.Token, ExpiresAt: sess.ExpiresAt, Admin: a}, nil
}

// Logout revokes a session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.db.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its admin.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Admin, error) {
	if token == "" {
		return nil, apperr.ErrUnauthorized
	}
	sess, err := s.db.GetSession(ctx, token, s.now())
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	a, err := s.db.GetAdmin(ctx, sess.AdminID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	return a, err
}

// PurgeSessions drops expired tokens.
func (s *Service) PurgeSessions(ctx context.Context) (int64, error) {
	return s.db.DeleteExpiredSessions(ctx, s.now())
}

// newToken returns 64 hex characters drawn from two random UUIDs.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
