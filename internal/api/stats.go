package api

import (
	"net/http"
	"time"
)

func yearParam(r *http.Request) int {
	return queryInt(r, "year", time.Now().Year())
}

// Dashboard handles GET /api/admin/stats/dashboard.
//
//	@Summary		Headline counts for the admin dashboard
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	service.DashboardStats
//	@Security		BearerAuth
//	@Router			/admin/stats/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Monthly(r.Context(), yearParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) Registrations(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Registrations(r.Context(), yearParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) Growth(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Growth(r.Context(), yearParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Distribution(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(groups))
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Recent(r.Context(), queryInt(r, "days", 7))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
