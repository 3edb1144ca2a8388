package engine

import (
	"log/slog"
	"sync"

	"github.com/roach88/starweeb/internal/repo"
	"github.com/roach88/starweeb/internal/store"
	"github.com/roach88/starweeb/internal/textgen"
)

// Engine runs domain operations against one store.
//
// Thread-safety model:
//   - mutating operations: serialized by mu for their full read-modify-write
//   - queries: lock-free, they only read
type Engine struct {
	repos  *repo.Repositories
	clock  Clock
	ids    IDGenerator
	writer *textgen.Writer
	logger *slog.Logger

	mu sync.Mutex
}

// Option allows configuration of engine collaborators.
type Option func(*Engine)

// WithClock sets the timestamp source. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithIDs sets the record id generator. Default: UUIDv7Generator.
func WithIDs(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithWriter sets the text writer for admirer notes and blog prompts.
// Default: a writer with no provider, which always returns fallbacks.
func WithWriter(w *textgen.Writer) Option {
	return func(e *Engine) { e.writer = w }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine over s.
//
// Options can be passed to configure the engine (e.g., WithClock).
func New(s store.Adapter, opts ...Option) *Engine {
	e := &Engine{
		repos: repo.New(s),
		clock: SystemClock{},
		ids:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.writer == nil {
		e.writer = textgen.NewWriter(nil, textgen.WithLogger(e.logger))
	}
	return e
}

// Repositories exposes the underlying collections for read access.
func (e *Engine) Repositories() *repo.Repositories {
	return e.repos
}

// lock acquires the mutation lock. Callers defer the returned func.
func (e *Engine) lock() func() {
	e.mu.Lock()
	return e.mu.Unlock
}
