package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/service"
	"github.com/starford/sipekan/internal/store"
)

// ListKegiatanPublic handles GET /api/public/kegiatan.
func (h *Handler) ListKegiatanPublic(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListKegiatan(r.Context(), kegiatanFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

// UpcomingKegiatan handles GET /api/public/kegiatan/upcoming.
//
//	@Summary		Activities from now on that are not finished
//	@Tags			public
//	@Produce		json
//	@Param			limit	query		int	false	"Max results (default 5)"
//	@Success		200		{object}	ListResponse[models.Kegiatan]
//	@Router			/public/kegiatan/upcoming [get]
func (h *Handler) UpcomingKegiatan(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.UpcomingKegiatan(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

// ListBeritaPublic handles GET /api/public/berita. Only published articles
// are listed.
func (h *Handler) ListBeritaPublic(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListBerita(r.Context(), store.BeritaFilter{
		Status:   models.BeritaPublished,
		Kategori: r.URL.Query().Get("kategori"),
		Limit:    queryInt(r, "limit", 0),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

// GetBeritaPublic handles GET /api/public/berita/*.
func (h *Handler) GetBeritaPublic(w http.ResponseWriter, r *http.Request) {
	slug := slugParam(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	b, err := h.svc.GetPublishedBerita(r.Context(), slug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// LookupAnak handles GET /api/public/anak.
//
//	@Summary		Find a child by code or name for the parent growth page
//	@Tags			public
//	@Produce		json
//	@Param			q	query		string	true	"Child code or name"
//	@Success		200	{object}	BalitaDetail
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/public/anak [get]
func (h *Handler) LookupAnak(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	d, err := h.svc.LookupAnak(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Classify handles POST /api/public/gizi/classify.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req service.ClassifyInput
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Classify(req))
}

// GenerateCode handles POST /api/public/kode/generate.
func (h *Handler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	var req service.CodeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, CodeResponse{Kode: service.GenerateCode(req)})
}

// ParseCode handles GET /api/public/kode/{kode}.
func (h *Handler) ParseCode(w http.ResponseWriter, r *http.Request) {
	parsed, ok := service.ParseCode(chi.URLParam(r, "kode"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid child code"))
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}
