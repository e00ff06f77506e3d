package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sipekan/internal/apperr"
	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/parser"
	"github.com/starford/sipekan/internal/store"
)

var errNoContent = errors.New("article files are not configured")

// BeritaInput is an article as edited in the admin panel.
type BeritaInput struct {
	Judul     string      `json:"judul"`
	Ringkasan string      `json:"ringkasan"`
	Isi       string      `json:"isi"`
	Kategori  string      `json:"kategori"`
	Status    string      `json:"status"`
	Tanggal   models.Date `json:"tanggal"`
}

func (in *BeritaInput) normalize() {
	in.Judul = strings.TrimSpace(in.Judul)
	in.Ringkasan = strings.TrimSpace(in.Ringkasan)
	in.Kategori = strings.TrimSpace(in.Kategori)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = models.BeritaDraft
	}
}

func (in *BeritaInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Judul, validation.Required),
		validation.Field(&in.Status, validation.In(models.BeritaStatus...)),
	)
}

func (in *BeritaInput) render() ([]byte, error) {
	return parser.Render(parser.FrontMatter{
		Title:     in.Judul,
		Kategori:  in.Kategori,
		Status:    in.Status,
		Tanggal:   in.Tanggal.String(),
		Ringkasan: in.Ringkasan,
	}, in.Isi)
}

// CreateBerita writes a new article file named after its title and indexes
// it. Title collisions get a numeric suffix.
func (s *Service) CreateBerita(ctx context.Context, in BeritaInput) (*models.Berita, error) {
	if s.files == nil {
		return nil, errNoContent
	}
	in.normalize()
	if in.Tanggal.IsZero() {
		in.Tanggal = models.NewDate(s.today())
	}
	if err := in.validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	path, err := s.freePath(Slugify(in.Judul))
	if err != nil {
		return nil, err
	}
	b, err := s.writeBerita(ctx, path, &in)
	if err != nil {
		return nil, err
	}
	s.publish(ResourceBerita, Created, b.Slug)
	return b, nil
}

// UpdateBerita rewrites an article file in place. The slug stays the same.
func (s *Service) UpdateBerita(ctx context.Context, slug string, in BeritaInput) (*models.Berita, error) {
	if s.files == nil {
		return nil, errNoContent
	}
	existing, err := s.db.GetBerita(ctx, slug)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if in.Tanggal.IsZero() {
		in.Tanggal = existing.Tanggal
	}
	if err := in.validate(); err != nil {
		return nil, apperr.Validation(err)
	}
	b, err := s.writeBerita(ctx, existing.Path, &in)
	if err != nil {
		return nil, err
	}
	s.publish(ResourceBerita, Updated, b.Slug)
	return b, nil
}

// DeleteBerita removes the article file and its index row.
func (s *Service) DeleteBerita(ctx context.Context, slug string) error {
	if s.files == nil {
		return errNoContent
	}
	existing, err := s.db.GetBerita(ctx, slug)
	if err != nil {
		return err
	}
	if ok, _ := s.files.Exists(existing.Path); ok {
		if err := s.files.Delete(existing.Path); err != nil {
			return err
		}
	}
	if err := s.db.DeleteBeritaByPath(ctx, existing.Path); err != nil {
		return err
	}
	s.publish(ResourceBerita, Deleted, slug)
	return nil
}

func (s *Service) GetBerita(ctx context.Context, slug string) (*models.Berita, error) {
	return s.db.GetBerita(ctx, slug)
}

// GetPublishedBerita hides drafts and archived articles from the public site.
func (s *Service) GetPublishedBerita(ctx context.Context, slug string) (*models.Berita, error) {
	b, err := s.db.GetBerita(ctx, slug)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BeritaPublished {
		return nil, fmt.Errorf("berita %q: %w", slug, apperr.ErrNotFound)
	}
	return b, nil
}

func (s *Service) ListBerita(ctx context.Context, f store.BeritaFilter) ([]models.Berita, error) {
	return s.db.ListBerita(ctx, f)
}

// SearchBerita searches published articles by title and body.
func (s *Service) SearchBerita(ctx context.Context, q string, limit int) ([]models.Berita, error) {
	return s.db.SearchBerita(ctx, q, models.BeritaPublished, limit)
}

func (s *Service) writeBerita(ctx context.Context, path string, in *BeritaInput) (*models.Berita, error) {
	data, err := in.render()
	if err != nil {
		return nil, fmt.Errorf("render berita: %w", err)
	}
	if err := s.files.Write(path, data); err != nil {
		return nil, err
	}
	return store.IndexArticle(ctx, s.db, path, data, s.now())
}

func (s *Service) freePath(slug string) (string, error) {
	for i := 1; ; i++ {
		candidate := slug
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", slug, i)
		}
		path := candidate + ".md"
		ok, err := s.files.Exists(path)
		if err != nil {
			return "", err
		}
		if !ok {
			return path, nil
		}
	}
}

// Slugify lower-cases title and joins its ASCII letters and digits with
// hyphens. An empty result becomes "berita".
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "berita"
	}
	return slug
}
