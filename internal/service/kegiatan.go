package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sipekan/internal/apperr"
	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/store"
)

// KegiatanInput is the editable part of an activity.
type KegiatanInput struct {
	Judul           string    `json:"judul"`
	Deskripsi       string    `json:"deskripsi"`
	TanggalWaktu    time.Time `json:"tanggal_waktu"`
	LokasiPosyandu  string    `json:"lokasi_posyandu"`
	Kategori        string    `json:"kategori"`
	PenanggungJawab string    `json:"penanggung_jawab"`
	Lokasi          string    `json:"lokasi"`
	TargetPeserta   string    `json:"target_peserta"`
	Status          string    `json:"status"`
}

func (in *KegiatanInput) normalize() {
	in.Judul = strings.TrimSpace(in.Judul)
	in.Deskripsi = strings.TrimSpace(in.Deskripsi)
	in.LokasiPosyandu = strings.TrimSpace(in.LokasiPosyandu)
	in.Kategori = strings.ToLower(strings.TrimSpace(in.Kategori))
	in.PenanggungJawab = strings.TrimSpace(in.PenanggungJawab)
	in.Lokasi = strings.TrimSpace(in.Lokasi)
	in.TargetPeserta = strings.TrimSpace(in.TargetPeserta)
	in.Status = strings.TrimSpace(in.Status)
}

func (in *KegiatanInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Judul, validation.Required),
		validation.Field(&in.Deskripsi, validation.Required),
		validation.Field(&in.TanggalWaktu, validation.Required),
		validation.Field(&in.LokasiPosyandu, validation.Required),
		validation.Field(&in.Kategori, validation.Required, validation.In(models.KegiatanKategori...)),
		validation.Field(&in.PenanggungJawab, validation.Required),
		validation.Field(&in.Lokasi, validation.Required),
		validation.Field(&in.TargetPeserta, validation.Required),
		validation.Field(&in.Status, validation.Required, validation.In(models.KegiatanStatus...)),
	)
}

func (in *KegiatanInput) apply(k *models.Kegiatan) {
	k.Judul = in.Judul
	k.Deskripsi = in.Deskripsi
	k.TanggalWaktu = in.TanggalWaktu
	k.LokasiPosyandu = in.LokasiPosyandu
	k.Kategori = in.Kategori
	k.PenanggungJawab = in.PenanggungJawab
	k.Lokasi = in.Lokasi
	k.TargetPeserta = in.TargetPeserta
	k.Status = in.Status
}

// CreateKegiatan schedules a new activity.
func (s *Service) CreateKegiatan(ctx context.Context, in KegiatanInput) (*models.Kegiatan, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, apperr.Validation(err)
	}
	k := &models.Kegiatan{ID: newID()}
	in.apply(k)
	if err := s.db.CreateKegiatan(ctx, k); err != nil {
		return nil, err
	}
	s.publish(ResourceKegiatan, Created, k.ID)
	return k, nil
}

// UpdateKegiatan replaces an activity's fields.
func (s *Service) UpdateKegiatan(ctx context.Context, id string, in KegiatanInput) (*models.Kegiatan, error) {
	k, err := s.db.GetKegiatan(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, apperr.Validation(err)
	}
	in.apply(k)
	if err := s.db.UpdateKegiatan(ctx, k); err != nil {
		return nil, err
	}
	s.publish(ResourceKegiatan, Updated, k.ID)
	return k, nil
}

func (s *Service) DeleteKegiatan(ctx context.Context, id string) error {
	if err := s.db.DeleteKegiatan(ctx, id); err != nil {
		return err
	}
	s.publish(ResourceKegiatan, Deleted, id)
	return nil
}

func (s *Service) GetKegiatan(ctx context.Context, id string) (*models.Kegiatan, error) {
	return s.db.GetKegiatan(ctx, id)
}

func (s *Service) ListKegiatan(ctx context.Context, f store.KegiatanFilter) ([]models.Kegiatan, error) {
	return s.db.ListKegiatan(ctx, f)
}

// UpcomingKegiatan lists unfinished activities scheduled from the start of
// today on, so one that began this morning is still listed.
func (s *Service) UpcomingKegiatan(ctx context.Context, limit int) ([]models.Kegiatan, error) {
	return s.db.UpcomingKegiatan(ctx, s.today(), limit)
}

func (s *Service) SearchKegiatan(ctx context.Context, q string, limit int) ([]models.Kegiatan, error) {
	return s.db.SearchKegiatan(ctx, q, limit)
}
