package service

import (
	"github.com/starford/sipekan/internal/gizi"
	"github.com/starford/sipekan/internal/kode"
	"github.com/starford/sipekan/internal/models"
)

// ClassifyInput is an ad hoc screening request. The age is taken from
// UsiaBulan when given, otherwise derived from TanggalLahir and Tanggal
// (today when Tanggal is empty).
type ClassifyInput struct {
	JenisKelamin  string      `json:"jenis_kelamin"`
	UsiaBulan     *int        `json:"usia_bulan"`
	TanggalLahir  models.Date `json:"tanggal_lahir"`
	Tanggal       models.Date `json:"tanggal"`
	BeratBadan    *float64    `json:"berat_badan"`
	TinggiBadan   *float64    `json:"tinggi_badan"`
	LingkarLengan *float64    `json:"lingkar_lengan"`
}

// ClassifyResult pairs the assessment with the derived age.
type ClassifyResult struct {
	gizi.Assessment
	UsiaBulan *int `json:"usia_bulan,omitempty"`
}

// Classify screens a sample without storing anything.
func (s *Service) Classify(in ClassifyInput) ClassifyResult {
	age := in.UsiaBulan
	if age == nil && !in.TanggalLahir.IsZero() {
		asOf := in.Tanggal.Time
		if in.Tanggal.IsZero() {
			asOf = s.today()
		}
		m := gizi.AgeInMonths(in.TanggalLahir.Time, asOf)
		age = &m
	}
	a := gizi.Assess(gizi.Sample{
		WeightKg:           in.BeratBadan,
		HeightCm:           in.TinggiBadan,
		ArmCircumferenceCm: in.LingkarLengan,
		AgeMonths:          age,
		Sex:                gizi.ParseSex(in.JenisKelamin),
	})
	return ClassifyResult{Assessment: a, UsiaBulan: age}
}

// CodeInput previews a child code without allocating a sequence number.
type CodeInput struct {
	Nama         string `json:"nama"`
	TanggalLahir string `json:"tanggal_lahir"`
	Nomor        int    `json:"nomor"`
}

// GenerateCode renders the code a child would get for the given sequence.
// Unparseable dates fall back to the no-date marker.
func GenerateCode(in CodeInput) string {
	return kode.Generate(in.Nama, kode.ParseDate(in.TanggalLahir), in.Nomor)
}

// ParsedCode is the public view of a decoded child code.
type ParsedCode struct {
	Kode         string `json:"kode"`
	TanggalLahir string `json:"tanggal_lahir"`
	Inisial      string `json:"inisial"`
	Nomor        int    `json:"nomor"`
}

// ParseCode decodes a child code; ok is false for malformed input.
func ParseCode(code string) (ParsedCode, bool) {
	c, ok := kode.Parse(code)
	if !ok {
		return ParsedCode{}, false
	}
	return ParsedCode{Kode: code, TanggalLahir: c.DateString(), Inisial: c.Initials, Nomor: c.Sequence}, true
}
