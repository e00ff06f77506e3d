package service

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sipekan/internal/apperr"
	"github.com/starford/sipekan/internal/gizi"
	"github.com/starford/sipekan/internal/models"
)

// PemeriksaanInput is one measurement as entered by a posyandu cadre.
// PengukuranKe may be left zero to take the next number for the child.
type PemeriksaanInput struct {
	Tanggal       models.Date `json:"tanggal"`
	PengukuranKe  int         `json:"pengukuran_ke"`
	BeratBadan    *float64    `json:"berat_badan"`
	TinggiBadan   *float64    `json:"tinggi_badan"`
	LingkarLengan *float64    `json:"lingkar_lengan"`
	LingkarKepala *float64    `json:"lingkar_kepala"`
	Catatan       string      `json:"catatan"`
}

func (in *PemeriksaanInput) validate(birth models.Date) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Tanggal, validation.By(func(any) error {
			if in.Tanggal.IsZero() {
				return errDateRequired
			}
			if !birth.IsZero() && in.Tanggal.Before(birth.Time) {
				return errors.New("must not be before the birth date")
			}
			return nil
		})),
		validation.Field(&in.PengukuranKe, validation.Min(1)),
		validation.Field(&in.BeratBadan, validation.Required, validation.Min(1.0), validation.Max(50.0)),
		validation.Field(&in.TinggiBadan, validation.Required, validation.Min(40.0), validation.Max(150.0)),
		validation.Field(&in.LingkarLengan, validation.Min(10.0), validation.Max(20.0)),
	)
}

// PemeriksaanResult is a stored measurement with its screening breakdown.
type PemeriksaanResult struct {
	models.Pemeriksaan
	Penilaian gizi.Assessment `json:"penilaian"`
}

// classify fills the derived fields of p from the child and returns the
// assessment behind the stored label.
func classify(p *models.Pemeriksaan, b *models.Balita) gizi.Assessment {
	sample := p.Sample(b.JenisKelamin)
	if b.TanggalLahir.IsZero() {
		p.UsiaBulan = 0
		sample.AgeMonths = nil
	} else {
		p.UsiaBulan = gizi.AgeInMonths(b.TanggalLahir.Time, p.Tanggal.Time)
		sample.AgeMonths = &p.UsiaBulan
	}
	a := gizi.Assess(sample)
	p.StatusGizi = a.Status
	return a
}

// CreatePemeriksaan records a measurement, classifies it and refreshes the
// child's status from its latest measurement.
func (s *Service) CreatePemeriksaan(ctx context.Context, balitaID string, in PemeriksaanInput) (*PemeriksaanResult, error) {
	b, err := s.db.GetBalita(ctx, balitaID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(b.TanggalLahir); err != nil {
		return nil, apperr.Validation(err)
	}
	if in.PengukuranKe == 0 {
		n, err := s.db.CountPemeriksaanByBalita(ctx, balitaID)
		if err != nil {
			return nil, err
		}
		in.PengukuranKe = n + 1
	}

	p := &models.Pemeriksaan{
		ID:            newID(),
		BalitaID:      balitaID,
		Tanggal:       in.Tanggal,
		PengukuranKe:  in.PengukuranKe,
		BeratBadan:    in.BeratBadan,
		TinggiBadan:   in.TinggiBadan,
		LingkarLengan: in.LingkarLengan,
		LingkarKepala: in.LingkarKepala,
		Catatan:       strings.TrimSpace(in.Catatan),
	}
	a := classify(p, b)
	if err := s.db.CreatePemeriksaan(ctx, p); err != nil {
		return nil, err
	}
	if err := s.refreshStatus(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("pemeriksaan recorded", "balita", balitaID, "status", string(p.StatusGizi))
	s.publish(ResourcePemeriksaan, Created, p.ID)
	return &PemeriksaanResult{Pemeriksaan: *p, Penilaian: a}, nil
}

// UpdatePemeriksaan replaces a measurement and reclassifies it.
func (s *Service) UpdatePemeriksaan(ctx context.Context, id string, in PemeriksaanInput) (*PemeriksaanResult, error) {
	p, err := s.db.GetPemeriksaan(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.db.GetBalita(ctx, p.BalitaID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(b.TanggalLahir); err != nil {
		return nil, apperr.Validation(err)
	}
	if in.PengukuranKe != 0 {
		p.PengukuranKe = in.PengukuranKe
	}
	p.Tanggal = in.Tanggal
	p.BeratBadan = in.BeratBadan
	p.TinggiBadan = in.TinggiBadan
	p.LingkarLengan = in.LingkarLengan
	p.LingkarKepala = in.LingkarKepala
	p.Catatan = strings.TrimSpace(in.Catatan)
	a := classify(p, b)

	if err := s.db.UpdatePemeriksaan(ctx, p); err != nil {
		return nil, err
	}
	if err := s.refreshStatus(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ResourcePemeriksaan, Updated, p.ID)
	return &PemeriksaanResult{Pemeriksaan: *p, Penilaian: a}, nil
}

// DeletePemeriksaan removes a measurement; the child's status falls back to
// the new latest measurement, or Normal when none is left.
func (s *Service) DeletePemeriksaan(ctx context.Context, id string) error {
	p, err := s.db.GetPemeriksaan(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.DeletePemeriksaan(ctx, id); err != nil {
		return err
	}
	b, err := s.db.GetBalita(ctx, p.BalitaID)
	if err != nil {
		return err
	}
	if err := s.refreshStatus(ctx, b); err != nil {
		return err
	}
	s.publish(ResourcePemeriksaan, Deleted, id)
	return nil
}

// GetPemeriksaan returns one measurement with its breakdown.
func (s *Service) GetPemeriksaan(ctx context.Context, id string) (*PemeriksaanResult, error) {
	p, err := s.db.GetPemeriksaan(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.db.GetBalita(ctx, p.BalitaID)
	if err != nil {
		return nil, err
	}
	return &PemeriksaanResult{Pemeriksaan: *p, Penilaian: gizi.Assess(p.Sample(b.JenisKelamin))}, nil
}

// ListPemeriksaan returns a child's measurements, newest first.
func (s *Service) ListPemeriksaan(ctx context.Context, balitaID string) ([]models.Pemeriksaan, error) {
	if _, err := s.db.GetBalita(ctx, balitaID); err != nil {
		return nil, err
	}
	return s.db.ListPemeriksaanByBalita(ctx, balitaID, false)
}

// reclassify recomputes age and status of every measurement of b, then the
// child's own status.
func (s *Service) reclassify(ctx context.Context, b *models.Balita) error {
	history, err := s.db.ListPemeriksaanByBalita(ctx, b.ID, true)
	if err != nil {
		return err
	}
	for i := range history {
		p := &history[i]
		age, status := p.UsiaBulan, p.StatusGizi
		classify(p, b)
		if p.UsiaBulan == age && p.StatusGizi == status {
			continue
		}
		if err := s.db.UpdatePemeriksaan(ctx, p); err != nil {
			return err
		}
		s.publish(ResourcePemeriksaan, Updated, p.ID)
	}
	return s.refreshStatus(ctx, b)
}

func (s *Service) refreshStatus(ctx context.Context, b *models.Balita) error {
	next := gizi.Normal
	latest, err := s.db.LatestPemeriksaan(ctx, b.ID)
	switch {
	case err == nil:
		next = latest.StatusGizi
	case !errors.Is(err, apperr.ErrNotFound):
		return err
	}
	if next == b.StatusGizi {
		return nil
	}
	if err := s.db.SetBalitaStatus(ctx, b.ID, string(next)); err != nil {
		return err
	}
	b.StatusGizi = next
	s.publish(ResourceBalita, Updated, b.ID)
	return nil
}
