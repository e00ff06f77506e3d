package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sipekan/internal/store"
)

func kegiatanFilter(r *http.Request) store.KegiatanFilter {
	q := r.URL.Query()
	return store.KegiatanFilter{
		Status:   q.Get("status"),
		Kategori: q.Get("kategori"),
		Limit:    queryInt(r, "limit", 0),
	}
}

// ListKegiatan handles GET /api/admin/kegiatan.
//
//	@Summary		List activities
//	@Tags			kegiatan
//	@Produce		json
//	@Param			status		query		string	false	"Filter by status"	Enums(Terjadwal, Berlangsung, Selesai)
//	@Param			kategori	query		string	false	"Filter by category"
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	ListResponse[models.Kegiatan]
//	@Security		BearerAuth
//	@Router			/admin/kegiatan [get]
func (h *Handler) ListKegiatan(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListKegiatan(r.Context(), kegiatanFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(items))
}

func (h *Handler) CreateKegiatan(w http.ResponseWriter, r *http.Request) {
	var req KegiatanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	k, err := h.svc.CreateKegiatan(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, k)
}

func (h *Handler) GetKegiatan(w http.ResponseWriter, r *http.Request) {
	k, err := h.svc.GetKegiatan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (h *Handler) UpdateKegiatan(w http.ResponseWriter, r *http.Request) {
	var req KegiatanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	k, err := h.svc.UpdateKegiatan(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (h *Handler) DeleteKegiatan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteKegiatan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
