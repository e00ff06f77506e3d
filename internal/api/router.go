package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sipekan/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer auth is enforced on /admin; token is
// the static operator token accepted alongside admin sessions.
// events, if non-nil, is mounted at GET /admin/events.
func NewRouter(svc *service.Service, authEnabled bool, token string, events http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Route("/public", func(r chi.Router) {
		r.Get("/kegiatan", h.ListKegiatanPublic)
		r.Get("/kegiatan/upcoming", h.UpcomingKegiatan)
		r.Get("/berita", h.ListBeritaPublic)
		r.Get("/berita/*", h.GetBeritaPublic)
		r.Get("/anak", h.LookupAnak)
		r.Post("/gizi/classify", h.Classify)
		r.Post("/kode/generate", h.GenerateCode)
		r.Get("/kode/{kode}", h.ParseCode)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token, svc))

		r.Get("/me", h.Me)

		r.Get("/balita", h.ListBalita)
		r.Post("/balita", h.CreateBalita)
		r.Get("/balita/search", h.SearchBalita)
		r.Get("/balita/{id}", h.GetBalita)
		r.Put("/balita/{id}", h.UpdateBalita)
		r.Delete("/balita/{id}", h.DeleteBalita)
		r.Patch("/balita/{id}/status", h.SetBalitaStatus)
		r.Get("/balita/{id}/pemeriksaan", h.ListPemeriksaan)
		r.Post("/balita/{id}/pemeriksaan", h.CreatePemeriksaan)
		r.Get("/balita/{id}/trend", h.Trend)

		r.Get("/pemeriksaan/{id}", h.GetPemeriksaan)
		r.Put("/pemeriksaan/{id}", h.UpdatePemeriksaan)
		r.Delete("/pemeriksaan/{id}", h.DeletePemeriksaan)

		r.Get("/kegiatan", h.ListKegiatan)
		r.Post("/kegiatan", h.CreateKegiatan)
		r.Get("/kegiatan/{id}", h.GetKegiatan)
		r.Put("/kegiatan/{id}", h.UpdateKegiatan)
		r.Delete("/kegiatan/{id}", h.DeleteKegiatan)

		r.Get("/berita", h.ListBerita)
		r.Post("/berita", h.CreateBerita)
		r.Get("/berita/*", h.GetBerita)
		r.Put("/berita/*", h.UpdateBerita)
		r.Delete("/berita/*", h.DeleteBerita)

		r.Get("/stats/dashboard", h.Dashboard)
		r.Get("/stats/monthly", h.Monthly)
		r.Get("/stats/registrations", h.Registrations)
		r.Get("/stats/growth", h.Growth)
		r.Get("/stats/distribution", h.Distribution)
		r.Get("/stats/recent", h.Recent)

		// SSE endpoint (protected by same auth middleware).
		if events != nil {
			r.Get("/events", events.ServeHTTP)
		}
	})

	return r
}
