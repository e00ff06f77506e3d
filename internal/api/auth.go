package api

import (
	"net/http"

	"github.com/starford/sipekan/internal/models"
)

// Login handles POST /api/auth/login.
//
//	@Summary		Exchange admin credentials for a session token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	service.LoginResult
//	@Failure		401		{object}	errResponse
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Logout handles POST /api/auth/logout. The Bearer token is revoked; a
// missing token is a no-op.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/admin/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	a := AdminFromContext(r.Context())
	if a == nil {
		a = &models.Admin{Role: models.RoleAdmin}
	}
	writeJSON(w, http.StatusOK, a)
}
