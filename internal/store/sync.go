package store

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/parser"
	"github.com/starford/sipekan/internal/storage"
)

// SyncArticles brings the berita table in line with the content directory:
// new or changed files are parsed and upserted, rows whose file is gone are
// deleted.
func SyncArticles(ctx context.Context, db *DB, files storage.Provider, logger *slog.Logger) error {
	metas, err := files.List("")
	if err != nil {
		return err
	}
	checksums, err := db.AllBeritaChecksums(ctx)
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}
		if checksums[m.Path] == m.Checksum {
			continue
		}
		data, err := files.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if _, err := IndexArticle(ctx, db, m.Path, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: indexed", slog.String("path", m.Path))
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteBeritaByPath(ctx, p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: removed stale", slog.String("path", p))
	}
	return nil
}

// IndexArticle parses one content file and upserts its row. modTime dates
// articles whose front matter has no tanggal.
func IndexArticle(ctx context.Context, db *DB, path string, data []byte, modTime time.Time) (*models.Berita, error) {
	a, err := parser.ParseArticle(data)
	if err != nil {
		return nil, err
	}
	b := ArticleRow(path, a, modTime)
	b.Checksum = storage.Checksum(data)
	if err := db.UpsertBerita(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ArticleRow maps a parsed file onto its index row.
func ArticleRow(path string, a *parser.Article, modTime time.Time) *models.Berita {
	b := &models.Berita{
		Slug:      SlugFromPath(path),
		Path:      path,
		Judul:     a.Title,
		Ringkasan: a.Ringkasan,
		Isi:       a.Body,
		Kategori:  a.Kategori,
		Status:    a.Status,
	}
	if b.Judul == "" {
		b.Judul = b.Slug
	}
	switch b.Status {
	case models.BeritaDraft, models.BeritaPublished, models.BeritaArchived:
	default:
		b.Status = models.BeritaDraft
	}
	if d, err := models.ParseDate(a.Tanggal); err == nil && !d.IsZero() {
		b.Tanggal = d
	} else if !modTime.IsZero() {
		b.Tanggal = models.NewDate(modTime)
	}
	return b
}

// SlugFromPath strips the .md suffix from a content path.
func SlugFromPath(path string) string {
	return strings.TrimSuffix(path, ".md")
}
