// Package models defines the domain records persisted by Sipekan.
package models

import (
	"time"

	"github.com/starford/sipekan/internal/gizi"
)

// Balita is a registered child under five.
type Balita struct {
	ID           string      `db:"id" json:"id"`
	KodeBalita   string      `db:"kode_balita" json:"kode_balita"`
	Nama         string      `db:"nama" json:"nama"`
	NIK          string      `db:"nik" json:"nik,omitempty"`
	JenisKelamin gizi.Sex    `db:"jenis_kelamin" json:"jenis_kelamin"`
	TanggalLahir Date        `db:"tanggal_lahir" json:"tanggal_lahir"`
	NamaIbu      string      `db:"nama_ibu" json:"nama_ibu,omitempty"`
	NamaAyah     string      `db:"nama_ayah" json:"nama_ayah,omitempty"`
	Alamat       string      `db:"alamat" json:"alamat,omitempty"`
	Posyandu     string      `db:"posyandu" json:"posyandu,omitempty"`
	BeratLahir   *float64    `db:"berat_lahir" json:"berat_lahir"`
	TinggiLahir  *float64    `db:"tinggi_lahir" json:"tinggi_lahir"`
	StatusGizi   gizi.Status `db:"status_gizi" json:"status_gizi"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// Pemeriksaan is one growth measurement of a child.
type Pemeriksaan struct {
	ID            string      `db:"id" json:"id"`
	BalitaID      string      `db:"balita_id" json:"balita_id"`
	Tanggal       Date        `db:"tanggal" json:"tanggal"`
	PengukuranKe  int         `db:"pengukuran_ke" json:"pengukuran_ke"`
	UsiaBulan     int         `db:"usia_bulan" json:"usia_bulan"`
	BeratBadan    *float64    `db:"berat_badan" json:"berat_badan"`
	TinggiBadan   *float64    `db:"tinggi_badan" json:"tinggi_badan"`
	LingkarLengan *float64    `db:"lingkar_lengan" json:"lingkar_lengan"`
	LingkarKepala *float64    `db:"lingkar_kepala" json:"lingkar_kepala"`
	StatusGizi    gizi.Status `db:"status_gizi" json:"status_gizi"`
	Catatan       string      `db:"catatan" json:"catatan,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
}

// Sample converts the measurement into classifier input for a child of the
// given sex.
func (p Pemeriksaan) Sample(sex gizi.Sex) gizi.Sample {
	age := p.UsiaBulan
	return gizi.Sample{
		WeightKg:           p.BeratBadan,
		HeightCm:           p.TinggiBadan,
		ArmCircumferenceCm: p.LingkarLengan,
		AgeMonths:          &age,
		Sex:                sex,
	}
}
