// Package health keeps the readiness checks of components that depend on
// something outside the process, such as webhook receivers or a NATS server.
package health

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen11/projectboard/internal/platform/fanout"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

const (
	maxParallelChecks = 8

	// DefaultCheckTimeout bounds a single check so one hung dependency
	// cannot stall the readiness probe.
	DefaultCheckTimeout = 2 * time.Second
)

// Registry holds checkers keyed by name. It is safe for concurrent use.
type Registry struct {
	timeout time.Duration

	mu       sync.RWMutex
	checkers []ports.HealthChecker
}

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout overrides DefaultCheckTimeout. Non-positive values
// disable the per-check deadline.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{timeout: DefaultCheckTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds checker. A checker with the same name as an existing one
// replaces it in place.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if i := slices.IndexFunc(r.checkers, func(c ports.HealthChecker) bool { return c.Name() == name }); i >= 0 {
		r.checkers[i] = checker
		return
	}
	r.checkers = append(r.checkers, checker)
}

// CheckAll runs every check concurrently, each under its own deadline, and
// returns the outcome per name. A nil entry means healthy. Checks run on a
// copy of the list, outside the lock.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	outcomes := fanout.Run(ctx, maxParallelChecks, checkers,
		func(ctx context.Context, c ports.HealthChecker) (struct{}, error) {
			if r.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, r.timeout)
				defer cancel()
			}
			return struct{}{}, c.HealthCheck(ctx)
		})

	results := make(map[string]error, len(checkers))
	for i, c := range checkers {
		results[c.Name()] = outcomes[i].Err
	}
	return results
}
