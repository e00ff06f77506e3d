package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/service"
	"github.com/starford/sipekan/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// slugParam extracts an article slug from the wildcard segment. Encoded
// slashes (berita%2Fjadwal) are accepted.
func slugParam(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return strings.TrimSuffix(decoded, ".md")
}

// ListBalita handles GET /api/admin/balita.
//
//	@Summary		List children with optional status filter
//	@Tags			balita
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	Enums(Normal, Resiko Stunting)
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	BalitaListResponse
//	@Security		BearerAuth
//	@Router			/admin/balita [get]
func (h *Handler) ListBalita(w http.ResponseWriter, r *http.Request) {
	f := store.BalitaFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	items, total, err := h.svc.ListBalita(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Balita{}
	}
	writeJSON(w, http.StatusOK, BalitaListResponse{Balita: items, Total: total})
}

// CreateBalita handles POST /api/admin/balita.
//
//	@Summary		Register a child and assign its code
//	@Tags			balita
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BalitaRequest	true	"Child to register"
//	@Success		201		{object}	models.Balita
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/admin/balita [post]
func (h *Handler) CreateBalita(w http.ResponseWriter, r *http.Request) {
	var req BalitaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.CreateBalita(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// SearchBalita handles GET /api/admin/balita/search.
func (h *Handler) SearchBalita(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	items, err := h.svc.SearchBalita(r.Context(), q, queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsOf(items))
}

// GetBalita handles GET /api/admin/balita/{id}.
//
//	@Summary		Get a child with its measurement history
//	@Tags			balita
//	@Produce		json
//	@Param			id	path		string	true	"Child ID"
//	@Success		200	{object}	BalitaDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/admin/balita/{id} [get]
func (h *Handler) GetBalita(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetBalita(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// UpdateBalita handles PUT /api/admin/balita/{id}. The child code is kept.
func (h *Handler) UpdateBalita(w http.ResponseWriter, r *http.Request) {
	var req BalitaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.UpdateBalita(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBalita handles DELETE /api/admin/balita/{id}.
func (h *Handler) DeleteBalita(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBalita(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetBalitaStatus handles PATCH /api/admin/balita/{id}/status. An empty or
// missing body toggles the status.
func (h *Handler) SetBalitaStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.SetBalitaStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// ListPemeriksaan handles GET /api/admin/balita/{id}/pemeriksaan.
func (h *Handler) ListPemeriksaan(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPemeriksaan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

// CreatePemeriksaan handles POST /api/admin/balita/{id}/pemeriksaan.
//
//	@Summary		Record and classify a measurement
//	@Tags			pemeriksaan
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Child ID"
//	@Param			body	body		PemeriksaanRequest	true	"Measurement"
//	@Success		201		{object}	PemeriksaanResult
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/admin/balita/{id}/pemeriksaan [post]
func (h *Handler) CreatePemeriksaan(w http.ResponseWriter, r *http.Request) {
	var req PemeriksaanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.CreatePemeriksaan(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Trend handles GET /api/admin/balita/{id}/trend.
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	points, err := h.svc.Trend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(points))
}

func (h *Handler) GetPemeriksaan(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPemeriksaan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdatePemeriksaan(w http.ResponseWriter, r *http.Request) {
	var req PemeriksaanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.UpdatePemeriksaan(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePemeriksaan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePemeriksaan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
