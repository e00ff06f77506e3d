// Package api implements the Sipekan REST API using chi.
package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/starford/sipekan/internal/models"
)

// Authenticator resolves admin session tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Admin, error)
}

type ctxKey struct{}

// AdminFromContext returns the admin attached by AuthMiddleware. It is nil
// when auth is disabled or the static token was used.
func AdminFromContext(ctx context.Context) *models.Admin {
	a, _ := ctx.Value(ctxKey{}).(*models.Admin)
	return a
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// AuthMiddleware returns middleware that validates a Bearer token.
// If enabled is false, all requests pass through (disabled mode).
// If enabled is true, the token must equal the configured static token or
// be a live admin session.
func AuthMiddleware(enabled bool, token string, sessions Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			got := bearerToken(r)
			if got == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			if token != "" && subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			if sessions != nil {
				if a, err := sessions.Authenticate(r.Context(), got); err == nil {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, a)))
					return
				}
			}
			writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		})
	}
}
