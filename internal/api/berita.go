package api

import (
	"net/http"

	"github.com/starford/sipekan/internal/store"
)

// ListBerita handles GET /api/admin/berita. All statuses are listed unless
// ?status= narrows it.
func (h *Handler) ListBerita(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.ListBerita(r.Context(), store.BeritaFilter{
		Status:   q.Get("status"),
		Kategori: q.Get("kategori"),
		Limit:    queryInt(r, "limit", 0),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

// CreateBerita handles POST /api/admin/berita.
//
//	@Summary		Write a new article file
//	@Tags			berita
//	@Accept			json
//	@Produce		json
//	@Param			body	body		BeritaRequest	true	"Article"
//	@Success		201		{object}	models.Berita
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/admin/berita [post]
func (h *Handler) CreateBerita(w http.ResponseWriter, r *http.Request) {
	var req BeritaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.CreateBerita(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBerita(w http.ResponseWriter, r *http.Request) {
	slug := slugParam(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	b, err := h.svc.GetBerita(r.Context(), slug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) UpdateBerita(w http.ResponseWriter, r *http.Request) {
	slug := slugParam(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	var req BeritaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.UpdateBerita(r.Context(), slug, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) DeleteBerita(w http.ResponseWriter, r *http.Request) {
	slug := slugParam(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	if err := h.svc.DeleteBerita(r.Context(), slug); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
