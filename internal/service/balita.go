package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sipekan/internal/apperr"
	"github.com/starford/sipekan/internal/gizi"
	"github.com/starford/sipekan/internal/kode"
	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/store"
)

var errDateRequired = validation.NewError("validation_required", "cannot be blank")

// BalitaInput is the editable part of a child record.
type BalitaInput struct {
	Nama         string      `json:"nama"`
	NIK          string      `json:"nik"`
	JenisKelamin string      `json:"jenis_kelamin"`
	TanggalLahir models.Date `json:"tanggal_lahir"`
	NamaIbu      string      `json:"nama_ibu"`
	NamaAyah     string      `json:"nama_ayah"`
	Alamat       string      `json:"alamat"`
	Posyandu     string      `json:"posyandu"`
	BeratLahir   *float64    `json:"berat_lahir"`
	TinggiLahir  *float64    `json:"tinggi_lahir"`
}

func (in *BalitaInput) normalize() {
	in.Nama = strings.TrimSpace(in.Nama)
	in.NIK = strings.TrimSpace(in.NIK)
	in.NamaIbu = strings.TrimSpace(in.NamaIbu)
	in.NamaAyah = strings.TrimSpace(in.NamaAyah)
	in.Alamat = strings.TrimSpace(in.Alamat)
	in.Posyandu = strings.TrimSpace(in.Posyandu)
	if sex := gizi.ParseSex(in.JenisKelamin); sex != gizi.SexUnknown {
		in.JenisKelamin = string(sex)
	}
}

func (in *BalitaInput) validate(today models.Date) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Nama, validation.Required, validation.RuneLength(3, 0)),
		validation.Field(&in.JenisKelamin, validation.Required,
			validation.In(string(gizi.Male), string(gizi.Female)).Error("must be Laki-laki or Perempuan")),
		validation.Field(&in.TanggalLahir, validation.By(func(any) error {
			if in.TanggalLahir.IsZero() {
				return errDateRequired
			}
			if in.TanggalLahir.After(today.Time) {
				return errors.New("must not be in the future")
			}
			return nil
		})),
		validation.Field(&in.NamaIbu, validation.Required, validation.RuneLength(3, 0)),
		validation.Field(&in.BeratLahir, validation.Min(0.5), validation.Max(10.0)),
		validation.Field(&in.TinggiLahir, validation.Min(30.0), validation.Max(70.0)),
	)
}

func (in *BalitaInput) apply(b *models.Balita) {
	b.Nama = in.Nama
	b.NIK = in.NIK
	b.JenisKelamin = gizi.Sex(in.JenisKelamin)
	b.TanggalLahir = in.TanggalLahir
	b.NamaIbu = in.NamaIbu
	b.NamaAyah = in.NamaAyah
	b.Alamat = in.Alamat
	b.Posyandu = in.Posyandu
	b.BeratLahir = in.BeratLahir
	b.TinggiLahir = in.TinggiLahir
}

// BalitaDetail is a child together with its measurement history.
type BalitaDetail struct {
	models.Balita
	UsiaBulan   int                  `json:"usia_bulan"`
	Usia        string               `json:"usia"`
	Pemeriksaan []models.Pemeriksaan `json:"pemeriksaan"`
	Penilaian   *gizi.Assessment     `json:"penilaian_terakhir,omitempty"`
}

// CreateBalita validates in, registers the child and assigns its code.
func (s *Service) CreateBalita(ctx context.Context, in BalitaInput) (*models.Balita, error) {
	in.normalize()
	if err := in.validate(models.NewDate(s.today())); err != nil {
		return nil, apperr.Validation(err)
	}

	b := &models.Balita{ID: newID(), StatusGizi: gizi.Normal}
	in.apply(b)
	err := s.db.CreateBalita(ctx, b, func(seq int) string {
		return kode.Generate(b.Nama, b.TanggalLahir.Time, seq)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("balita registered", "id", b.ID, "kode", b.KodeBalita)
	s.publish(ResourceBalita, Created, b.ID)
	return b, nil
}

// UpdateBalita rewrites the editable fields. The child code never changes,
// even when the name or birth date does. A new birth date or sex reclassifies
// every stored measurement of the child.
func (s *Service) UpdateBalita(ctx context.Context, id string, in BalitaInput) (*models.Balita, error) {
	b, err := s.db.GetBalita(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(models.NewDate(s.today())); err != nil {
		return nil, apperr.Validation(err)
	}
	birth, sex := b.TanggalLahir, b.JenisKelamin
	in.apply(b)
	if err := s.db.UpdateBalita(ctx, b); err != nil {
		return nil, err
	}
	s.publish(ResourceBalita, Updated, b.ID)
	if !b.TanggalLahir.Equal(birth.Time) || b.JenisKelamin != sex {
		if err := s.reclassify(ctx, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// SetBalitaStatus overrides a child's status. An empty status toggles
// between Normal and Resiko Stunting.
func (s *Service) SetBalitaStatus(ctx context.Context, id, status string) (*models.Balita, error) {
	b, err := s.db.GetBalita(ctx, id)
	if err != nil {
		return nil, err
	}
	var next gizi.Status
	if strings.TrimSpace(status) == "" {
		next = gizi.AtRiskStunting
		if b.StatusGizi == gizi.AtRiskStunting {
			next = gizi.Normal
		}
	} else {
		parsed, ok := gizi.ParseStatus(status)
		if !ok {
			return nil, &apperr.ValidationError{Fields: map[string]string{
				"status_gizi": fmt.Sprintf("must be %q or %q", gizi.Normal, gizi.AtRiskStunting),
			}}
		}
		next = parsed
	}
	if err := s.db.SetBalitaStatus(ctx, id, string(next)); err != nil {
		return nil, err
	}
	b.StatusGizi = next
	s.publish(ResourceBalita, Updated, id)
	return b, nil
}

// DeleteBalita removes a child and its measurements.
func (s *Service) DeleteBalita(ctx context.Context, id string) error {
	if err := s.db.DeleteBalita(ctx, id); err != nil {
		return err
	}
	s.publish(ResourceBalita, Deleted, id)
	return nil
}

// GetBalita returns a child with its measurements, newest first.
func (s *Service) GetBalita(ctx context.Context, id string) (*BalitaDetail, error) {
	b, err := s.db.GetBalita(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, b, false)
}

// ListBalita returns one page of children and the total count.
func (s *Service) ListBalita(ctx context.Context, f store.BalitaFilter) ([]models.Balita, int, error) {
	if f.Status != "" {
		st, ok := gizi.ParseStatus(f.Status)
		if !ok {
			return nil, 0, fmt.Errorf("status %q: %w", f.Status, apperr.ErrInvalidInput)
		}
		f.Status = string(st)
	}
	return s.db.ListBalita(ctx, f)
}

// SearchBalita matches children by name or code.
func (s *Service) SearchBalita(ctx context.Context, q string, limit int) ([]models.Balita, error) {
	return s.db.SearchBalita(ctx, q, limit)
}

// LookupAnak serves the public growth lookup: an exact code match wins,
// otherwise the best name or code search hit is used. History is returned
// oldest first for charting.
func (s *Service) LookupAnak(ctx context.Context, q string) (*BalitaDetail, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("empty query: %w", apperr.ErrInvalidInput)
	}
	b, err := s.db.GetBalitaByKode(ctx, q)
	if errors.Is(err, apperr.ErrNotFound) {
		hits, serr := s.db.SearchBalita(ctx, q, 1)
		if serr != nil {
			return nil, serr
		}
		if len(hits) == 0 {
			return nil, fmt.Errorf("anak %q: %w", q, apperr.ErrNotFound)
		}
		b, err = &hits[0], nil
	}
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, b, true)
}

func (s *Service) detail(ctx context.Context, b *models.Balita, ascending bool) (*BalitaDetail, error) {
	history, err := s.db.ListPemeriksaanByBalita(ctx, b.ID, ascending)
	if err != nil {
		return nil, err
	}
	d := &BalitaDetail{Balita: *b, Pemeriksaan: history}
	if !b.TanggalLahir.IsZero() {
		today := s.today()
		d.UsiaBulan = gizi.AgeInMonths(b.TanggalLahir.Time, today)
		d.Usia = gizi.AgeLabel(b.TanggalLahir.Time, today)
	}
	if len(history) > 0 {
		latest := history[0]
		if ascending {
			latest = history[len(history)-1]
		}
		a := gizi.Assess(latest.Sample(b.JenisKelamin))
		d.Penilaian = &a
	}
	return d, nil
}
