package api

import (
	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/service"
)

// BalitaRequest is the request body for creating or updating a child.
type BalitaRequest = service.BalitaInput

// BalitaDetail is a child with its measurement history (aliased from the
// service layer).
type BalitaDetail = service.BalitaDetail

// BalitaListResponse wraps paginated child listings.
type BalitaListResponse struct {
	Balita []models.Balita `json:"balita" validate:"required"`
	Total  int             `json:"total" example:"42" validate:"required"`
}

// StatusRequest sets or, when empty, toggles a child's nutrition status.
type StatusRequest struct {
	Status string `json:"status" example:"Resiko Stunting"`
}

// PemeriksaanRequest is the request body for a measurement.
type PemeriksaanRequest = service.PemeriksaanInput

// PemeriksaanResult is a measurement with its screening breakdown.
type PemeriksaanResult = service.PemeriksaanResult

// KegiatanRequest is the request body for an activity.
type KegiatanRequest = service.KegiatanInput

// BeritaRequest is the request body for an article.
type BeritaRequest = service.BeritaInput

// ListResponse wraps an unpaginated listing.
type ListResponse[T any] struct {
	Items []T `json:"items" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse[T any] struct {
	Results []T `json:"results" validate:"required"`
}

// CodeResponse is returned by the code preview endpoint.
type CodeResponse struct {
	Kode string `json:"kode" example:"20250113-AR-001" validate:"required"`
}

// LoginRequest is the admin login form.
type LoginRequest struct {
	Email    string `json:"email" example:"kader@posyandu.id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func listOf[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items}
}

func resultsOf[T any](items []T) SearchResponse[T] {
	if items == nil {
		items = []T{}
	}
	return SearchResponse[T]{Results: items}
}
