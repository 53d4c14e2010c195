package ports

import "context"

// HealthChecker reports whether a dependency is usable. The webhook notifier
// answers from its circuit breaker, the NATS publisher from its connection.
type HealthChecker interface {
	// Name keys the check in readiness output, e.g. "webhook" or "nats".
	Name() string

	// HealthCheck returns nil when usable. It must return promptly once ctx
	// is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry aggregates checkers for the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll maps each checker name to its result; nil means healthy.
	CheckAll(ctx context.Context) map[string]error
}
