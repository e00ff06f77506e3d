// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sipekan/internal/api"
	"github.com/starford/sipekan/internal/mcpserver"
	"github.com/starford/sipekan/internal/service"
	"github.com/starford/sipekan/internal/sse"
	"github.com/starford/sipekan/internal/storage"
	"github.com/starford/sipekan/internal/store"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeEvery      = time.Hour
)

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func (a *application) openStore() (*store.DB, error) {
	path := a.config.SQLite.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	return db, nil
}

// open prepares the database and the article directory and runs the initial
// article sync.
func (a *application) open(ctx context.Context, logger *slog.Logger) (*store.DB, *storage.FS, error) {
	files, err := storage.NewFS(a.config.Content.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("init content: %w", err)
	}
	db, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	if err := store.SyncArticles(ctx, db, files, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	return db, files, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("content_dir", cfg.Content.Dir),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, files, err := app.open(ctx, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(cfg.SSE.StatsThrottle)
	defer broker.Close()

	svc := service.New(db, files,
		service.WithPublisher(broker),
		service.WithLogger(logger),
		service.WithSessionTTL(cfg.Auth.SessionTTL),
	)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := svc.Ping(req.Context()); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Start article watcher with SSE callback.
	if cfg.Content.Watch {
		g.Go(func() error {
			err := store.WatchArticles(gCtx, db, files, files.Root(), logger, func(kind, slug string) {
				broker.PublishChange(service.ResourceBerita, kind, slug)
			})
			if err != nil {
				logger.Error("article watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Purge expired admin sessions.
	g.Go(func() error {
		ticker := time.NewTicker(purgeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				n, err := svc.PurgeSessions(gCtx)
				if err != nil {
					logger.Warn("session purge failed", slog.String("error", err.Error()))
					continue
				}
				if n > 0 {
					logger.Info("expired sessions purged", slog.Int64("count", n))
				}
			}
		}
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close SSE streams first so Shutdown does not wait on them.
		broker.Close()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		cancel()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdio until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	db, files, err := app.open(ctx, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := service.New(db, files, service.WithLogger(logger))
	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}

// CreateAdmin registers an admin account from the command line.
func CreateAdmin(ctx context.Context, email, password string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	db, err := app.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := service.New(db, nil, service.WithLogger(logger)).CreateAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	logger.Info("Admin ready", slog.String("id", a.ID), slog.String("email", a.Email))
	return nil
}
