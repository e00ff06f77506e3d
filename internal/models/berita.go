package models

import "time"

// Article statuses.
const (
	BeritaDraft     = "draft"
	BeritaPublished = "published"
	BeritaArchived  = "archived"
)

// BeritaStatus lists every accepted article status.
var BeritaStatus = []any{BeritaDraft, BeritaPublished, BeritaArchived}

// Berita is a news article. Its source of truth is a Markdown file under the
// content directory; Slug is the file path without the .md suffix.
type Berita struct {
	Slug      string    `db:"slug" json:"slug"`
	Path      string    `db:"path" json:"path"`
	Judul     string    `db:"judul" json:"judul"`
	Ringkasan string    `db:"ringkasan" json:"ringkasan,omitempty"`
	Isi       string    `db:"isi" json:"isi,omitempty"`
	Kategori  string    `db:"kategori" json:"kategori,omitempty"`
	Status    string    `db:"status" json:"status"`
	Tanggal   Date      `db:"tanggal" json:"tanggal"`
	Checksum  string    `db:"checksum" json:"checksum"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ContentFile is the metadata of one Markdown file in the content directory.
type ContentFile struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
