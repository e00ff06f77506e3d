// Package service implements Sipekan's use cases on top of the store and the
// article files: validation, code generation, classification and change
// notifications.
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/sipekan/internal/storage"
	"github.com/starford/sipekan/internal/store"
)

// Resources named in change notifications.
const (
	ResourceBalita      = "balita"
	ResourcePemeriksaan = "pemeriksaan"
	ResourceKegiatan    = "kegiatan"
	ResourceBerita      = "berita"
)

// Change kinds.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// Publisher receives a notification after every successful mutation.
type Publisher interface {
	PublishChange(resource, kind, id string)
}

type nopPublisher struct{}

func (nopPublisher) PublishChange(string, string, string) {}

// Service is the application facade used by the HTTP API and the MCP server.
type Service struct {
	db         *store.DB
	files      storage.Provider
	events     Publisher
	logger     *slog.Logger
	now        func() time.Time
	sessionTTL time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the change notification sink.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL sets how long admin login tokens stay valid.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// New creates a Service. files may be nil when article management is not
// needed (the MCP server only reads the index).
func New(db *store.DB, files storage.Provider, opts ...Option) *Service {
	s := &Service{
		db:         db,
		files:      files,
		events:     nopPublisher{},
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:        time.Now,
		sessionTTL: 12 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) publish(resource, kind, id string) {
	s.events.PublishChange(resource, kind, id)
}

func newID() string {
	return uuid.NewString()
}
