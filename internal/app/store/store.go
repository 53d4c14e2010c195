// Package store holds the process-wide, in-memory collection of projects and
// notifies registered listeners whenever it changes.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/samber/do/v2"

	"github.com/jsamuelsen11/projectboard/internal/domain/project"
	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
	"github.com/jsamuelsen11/projectboard/internal/platform/telemetry"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

// Compile-time interface check.
var _ ports.ProjectStore = (*Store)(nil)

// ErrReentrantAdd is the panic value raised when a listener calls AddProject
// on the store that is notifying it. The panic is recovered like any other
// listener panic, so the outer AddProject still completes.
var ErrReentrantAdd = errors.New("store: AddProject called from one of its own listeners")

// Store is an append-only, ordered collection of projects.
//
// Writers serialize on mu, which is held across the append and the listener
// notifications. Readers never take mu: they load the snapshot published
// once every listener has run, so no caller observes a project that has been
// appended but not yet announced, and a listener may read the store without
// deadlocking.
type Store struct {
	mu        sync.Mutex
	projects  []project.Project
	published atomic.Pointer[[]project.Project]

	listenersMu sync.Mutex
	listeners   []ports.Listener

	newID   project.IDGenerator
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// notifyingKey marks the context passed to listeners with the notifying store.
type notifyingKey struct{}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the generator used for new project IDs.
func WithIDGenerator(gen project.IDGenerator) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// New creates an empty store. logger and metrics may be nil.
func New(logger *slog.Logger, metrics *telemetry.Metrics, opts ...Option) *Store {
	s := &Store{
		newID:   project.DefaultIDGenerator,
		logger:  logging.OrDiscard(logger),
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provide is a samber/do provider for the shared store. Registered with
// do.Provide it is built on first invoke and reused afterwards. The
// *telemetry.Metrics dependency is optional.
func Provide(i do.Injector) (ports.ProjectStore, error) {
	logger, err := do.Invoke[*slog.Logger](i)
	if err != nil {
		return nil, fmt.Errorf("store: resolving logger: %w", err)
	}
	metrics, _ := do.Invoke[*telemetry.Metrics](i)
	return New(logger, metrics), nil
}

// AddProject builds a project, appends it and notifies every listener in
// registration order before returning. Each listener gets its own snapshot.
// Calling AddProject from a listener of the same store, with the context it
// was handed, panics with ErrReentrantAdd.
func (s *Store) AddProject(ctx context.Context, title string, people int, description string) project.Project {
	if owner, _ := ctx.Value(notifyingKey{}).(*Store); owner == s {
		panic(ErrReentrantAdd)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := project.New(title, people, description, s.newID)
	s.projects = append(s.projects, p)
	s.metrics.RecordProjectAdded(ctx)

	s.logger.DebugContext(ctx, "project added",
		slog.String("project_id", p.ID),
		slog.Int("count", len(s.projects)),
	)

	s.listenersMu.Lock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.Unlock()

	lctx := context.WithValue(ctx, notifyingKey{}, s)
	for i, fn := range listeners {
		s.notify(lctx, i, fn)
	}

	snapshot := slices.Clone(s.projects)
	s.published.Store(&snapshot)

	return p
}

// AddListener appends fn to the listener list. Registering the same function
// twice makes it run twice per change. A listener added while a change is
// being announced first runs on the next change.
func (s *Store) AddListener(fn ports.Listener) {
	if fn == nil {
		return
	}
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Projects returns a copy of the collection in insertion order. While
// listeners are running it still reports the collection before the change
// being announced.
func (s *Store) Projects() []project.Project {
	p := s.published.Load()
	if p == nil {
		return nil
	}
	return slices.Clone(*p)
}

// Len returns the number of stored projects, with the same visibility as
// Projects.
func (s *Store) Len() int {
	p := s.published.Load()
	if p == nil {
		return 0
	}
	return len(*p)
}

// notify runs one listener with a fresh snapshot. A panicking listener is
// logged and counted; it does not stop the others.
func (s *Store) notify(ctx context.Context, index int, fn ports.Listener) {
	panicked := false
	defer func() {
		if rec := recover(); rec != nil {
			panicked = true
			s.logger.ErrorContext(ctx, "listener panicked",
				slog.String("operation", "AddProject"),
				slog.Int("listener", index),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
		}
		s.metrics.RecordListener(ctx, panicked)
	}()

	fn(ctx, slices.Clone(s.projects))
}
