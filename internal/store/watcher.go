package store

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/sipekan/internal/storage"
)

// Article change kinds passed to ArticleCallback.
const (
	ArticleCreated = "created"
	ArticleUpdated = "updated"
	ArticleDeleted = "deleted"
)

// ArticleCallback is called after the watcher changes the article index.
type ArticleCallback func(kind, slug string)

const reconcileDelay = 200 * time.Millisecond

// WatchArticles indexes content changes under root until ctx is cancelled.
// Directories created at runtime are watched too. A rename triggers a
// debounced reconcile pass because fsnotify only reports the old name.
func WatchArticles(ctx context.Context, db *DB, files storage.Provider, root string, logger *slog.Logger, cb ArticleCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := watchTree(w, root); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("root", root))

	notify := func(kind, path string) {
		if cb != nil {
			cb(kind, SlugFromPath(path))
		}
	}

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time
	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
			return
		}
		reconcileTimer.Reset(reconcileDelay)
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(ctx, db, files, logger, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if err := watchTree(w, ev.Name); err != nil {
						logger.Warn("watcher: add dir failed", slog.String("path", ev.Name), slog.String("error", err.Error()))
					}
					// Files may land before the watch is registered.
					scheduleReconcile()
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, err := files.Read(rel)
				if err != nil {
					logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
					continue
				}
				// Writes made through the service are already indexed.
				if cs, _ := db.BeritaChecksum(ctx, rel); cs == storage.Checksum(data) {
					continue
				}
				if _, err := IndexArticle(ctx, db, rel, data, time.Now()); err != nil {
					logger.Warn("watcher: index failed", slog.String("path", rel), slog.String("error", err.Error()))
					continue
				}
				kind := ArticleUpdated
				if ev.Op&fsnotify.Create != 0 {
					kind = ArticleCreated
				}
				logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
				notify(kind, rel)

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				if err := db.DeleteBeritaByPath(ctx, rel); err != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
				} else {
					logger.Debug("watcher: deleted", slog.String("path", rel))
					notify(ArticleDeleted, rel)
				}
				if ev.Op&fsnotify.Rename != 0 {
					scheduleReconcile()
				}
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", werr.Error()))
		}
	}
}

// reconcile drops rows without a file and indexes files that are new or
// changed since the last look.
func reconcile(ctx context.Context, db *DB, files storage.Provider, logger *slog.Logger, notify func(kind, path string)) {
	checksums, err := db.AllBeritaChecksums(ctx)
	if err != nil {
		logger.Warn("reconcile: checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := files.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}
	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteBeritaByPath(ctx, p); err == nil {
			notify(ArticleDeleted, p)
		}
	}
	for _, m := range metas {
		old, known := checksums[m.Path]
		if known && old == m.Checksum {
			continue
		}
		data, err := files.Read(m.Path)
		if err != nil {
			continue
		}
		if _, err := IndexArticle(ctx, db, m.Path, data, m.UpdatedAt); err != nil {
			continue
		}
		kind := ArticleCreated
		if known {
			kind = ArticleUpdated
		}
		logger.Debug("reconcile: indexed", slog.String("path", m.Path), slog.String("op", kind))
		notify(kind, m.Path)
	}
}

func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
