package models

import "time"

// Activity categories offered on the admin form.
const (
	KategoriImunisasi   = "imunisasi"
	KategoriEdukasi     = "edukasi"
	KategoriPemeriksaan = "pemeriksaan"
	KategoriPosyandu    = "posyandu"
	KategoriPenyuluhan  = "penyuluhan"
	KategoriKonseling   = "konseling"
	KategoriPemantauan  = "pemantauan"
)

// Activity statuses.
const (
	KegiatanTerjadwal   = "Terjadwal"
	KegiatanBerlangsung = "Berlangsung"
	KegiatanSelesai     = "Selesai"
)

// KegiatanKategori lists every accepted activity category.
var KegiatanKategori = []any{
	KategoriImunisasi, KategoriEdukasi, KategoriPemeriksaan, KategoriPosyandu,
	KategoriPenyuluhan, KategoriKonseling, KategoriPemantauan,
}

// KegiatanStatus lists every accepted activity status.
var KegiatanStatus = []any{KegiatanTerjadwal, KegiatanBerlangsung, KegiatanSelesai}

// Kegiatan is a scheduled posyandu activity.
type Kegiatan struct {
	ID              string    `db:"id" json:"id"`
	Judul           string    `db:"judul" json:"judul"`
	Deskripsi       string    `db:"deskripsi" json:"deskripsi"`
	TanggalWaktu    time.Time `db:"tanggal_waktu" json:"tanggal_waktu"`
	LokasiPosyandu  string    `db:"lokasi_posyandu" json:"lokasi_posyandu"`
	Kategori        string    `db:"kategori" json:"kategori"`
	PenanggungJawab string    `db:"penanggung_jawab" json:"penanggung_jawab"`
	Lokasi          string    `db:"lokasi" json:"lokasi"`
	TargetPeserta   string    `db:"target_peserta" json:"target_peserta"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
