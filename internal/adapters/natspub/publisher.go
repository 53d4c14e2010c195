// Package natspub publishes project change events to NATS. Each change
// produces two messages: the full collection on "<prefix>.snapshot" and the
// newest record on "<prefix>.added".
package natspub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jsamuelsen11/projectboard/internal/adapters/event"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
	"github.com/jsamuelsen11/projectboard/internal/platform/config"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*Publisher)(nil)

// Publisher sends change events over a NATS connection it owns.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// Connect dials the configured server. The connection retries in the
// background when the server is not up yet, so startup does not depend on it.
func Connect(cfg *config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("projectboard"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.Any("error", err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", c.ConnectedUrlRedacted()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return New(nc, cfg.SubjectPrefix, logger), nil
}

// New wraps an existing connection. The Publisher takes ownership of nc.
func New(nc *nats.Conn, prefix string, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   nc,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Subject returns the full subject for an event type.
func (p *Publisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

// Publish is a ports.Listener. Messages are buffered by the client, so this
// does not wait on the server. Failures are logged, never returned.
func (p *Publisher) Publish(ctx context.Context, projects []project.Project) {
	at := p.now()

	if err := p.send(event.TypeSnapshot, event.NewSnapshot(projects, at)); err != nil {
		p.logger.ErrorContext(ctx, "publishing snapshot",
			slog.String("operation", "natspub.Publish"),
			slog.String("subject", p.Subject(event.TypeSnapshot)),
			slog.Any("error", err),
		)
	}

	added, ok := event.NewAdded(projects, at)
	if !ok {
		return
	}
	if err := p.send(event.TypeAdded, added); err != nil {
		p.logger.ErrorContext(ctx, "publishing added event",
			slog.String("operation", "natspub.Publish"),
			slog.String("subject", p.Subject(event.TypeAdded)),
			slog.String("project_id", added.Project.ID),
			slog.Any("error", err),
		)
	}
}

func (p *Publisher) send(eventType string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", eventType, err)
	}
	return p.conn.Publish(p.Subject(eventType), data)
}

// Name implements ports.HealthChecker.
func (p *Publisher) Name() string {
	return "nats"
}

// HealthCheck reports whether the connection is currently established.
func (p *Publisher) HealthCheck(_ context.Context) error {
	if status := p.conn.Status(); status != nats.CONNECTED {
		return fmt.Errorf("nats: connection %s", status)
	}
	return nil
}

// Close flushes buffered messages and closes the connection.
func (p *Publisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}
