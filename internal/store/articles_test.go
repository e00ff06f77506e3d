package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/parser"
	"github.com/starford/sipekan/internal/storage"
)

func contentEnv(t *testing.T) (string, *storage.FS, *DB) {
	t.Helper()
	files, err := storage.NewFS(t.TempDir())
	require.NoError(t, err)
	return files.Root(), files, testDB(t)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func indexed(db *DB, slug string) bool {
	_, err := db.GetBerita(context.Background(), slug)
	return err == nil
}

const article = "---\ntitle: Imunisasi Polio\nstatus: published\ntanggal: 2025-02-10\nkategori: imunisasi\n---\nIsi berita.\n"

func TestSyncArticles_AddChangeRemove(t *testing.T) {
	root, files, db := contentEnv(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(root, "polio.md"), []byte(article), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2025"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2025", "gizi.md"), []byte("# Gizi Seimbang\n\nMakan sayur.\n"), 0o644))

	require.NoError(t, SyncArticles(ctx, db, files, quietLogger()))

	b, err := db.GetBerita(ctx, "polio")
	require.NoError(t, err)
	assert.Equal(t, "Imunisasi Polio", b.Judul)
	assert.Equal(t, models.BeritaPublished, b.Status)
	assert.Equal(t, "2025-02-10", b.Tanggal.String())
	assert.Equal(t, storage.Checksum([]byte(article)), b.Checksum)

	nested, err := db.GetBerita(ctx, "2025/gizi")
	require.NoError(t, err)
	assert.Equal(t, "Gizi Seimbang", nested.Judul)
	assert.Equal(t, models.BeritaDraft, nested.Status, "missing status defaults to draft")
	assert.False(t, nested.Tanggal.IsZero(), "missing tanggal falls back to file time")
	assert.Equal(t, "Makan sayur.", nested.Ringkasan)

	require.NoError(t, os.WriteFile(filepath.Join(root, "polio.md"), []byte("---\ntitle: Polio Revisi\n---\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(root, "2025", "gizi.md")))
	require.NoError(t, SyncArticles(ctx, db, files, quietLogger()))

	b, err = db.GetBerita(ctx, "polio")
	require.NoError(t, err)
	assert.Equal(t, "Polio Revisi", b.Judul)
	assert.False(t, indexed(db, "2025/gizi"))
}

func TestArticleRow_Defaults(t *testing.T) {
	mod := time.Date(2025, 5, 6, 10, 0, 0, 0, time.UTC)
	row := ArticleRow("kabar.md", &parser.Article{FrontMatter: parser.FrontMatter{Status: "bogus", Tanggal: "not a date"}}, mod)
	assert.Equal(t, "kabar", row.Slug)
	assert.Equal(t, "kabar", row.Judul)
	assert.Equal(t, models.BeritaDraft, row.Status)
	assert.Equal(t, "2025-05-06", row.Tanggal.String())
}

func TestWatchArticles_NewFileIndexed(t *testing.T) {
	root, files, db := contentEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string
	go WatchArticles(ctx, db, files, root, quietLogger(), func(kind, slug string) {
		mu.Lock()
		events = append(events, kind+":"+slug)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "baru.md"), []byte(article), 0o644))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return indexed(db, "baru") },
		"new file not indexed by watcher")
	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:baru" || e == "updated:baru" {
				return true
			}
		}
		return false
	}, "expected callback for baru")
}

func TestWatchArticles_NewDirWatched(t *testing.T) {
	root, files, db := contentEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go WatchArticles(ctx, db, files, root, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(root, "arsip")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "lama.md"), []byte("# Lama"), 0o644))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool { return indexed(db, "arsip/lama") },
		"file in new subdir not indexed by watcher")
}

func TestWatchArticles_DeleteAndRename(t *testing.T) {
	root, files, db := contentEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "hapus.md"), []byte("# Hapus"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lama.md"), []byte("# Pindah"), 0o644))
	require.NoError(t, SyncArticles(context.Background(), db, files, quietLogger()))
	require.True(t, indexed(db, "hapus"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go WatchArticles(ctx, db, files, root, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(root, "hapus.md")))
	require.NoError(t, os.Rename(filepath.Join(root, "lama.md"), filepath.Join(root, "baru.md")))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return !indexed(db, "hapus") && !indexed(db, "lama") && indexed(db, "baru")
	}, "delete/rename not reflected in index")
}
