// Package webhook forwards project snapshots to HTTP endpoints. The Notifier
// is registered as a store listener; it only enqueues, and a background worker
// performs the deliveries so that adding a project never waits on the network.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jsamuelsen11/projectboard/internal/adapters/event"
	"github.com/jsamuelsen11/projectboard/internal/domain/project"
	"github.com/jsamuelsen11/projectboard/internal/platform/config"
	"github.com/jsamuelsen11/projectboard/internal/platform/fanout"
	"github.com/jsamuelsen11/projectboard/internal/platform/httpclient"
	"github.com/jsamuelsen11/projectboard/internal/platform/telemetry"
	"github.com/jsamuelsen11/projectboard/internal/ports"
)

// Headers set on every delivery.
const (
	SignatureHeader = "X-Signature-256"
	EventHeader     = "X-Event-Type"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*Notifier)(nil)

type target struct {
	url    string
	client *httpclient.Client
}

type delivery struct {
	requestID string
	projects  []project.Project
	at        time.Time
}

// Notifier delivers snapshots to every configured target.
type Notifier struct {
	targets    []target
	secret     []byte
	maxWorkers int
	queue      chan delivery
	logger     *slog.Logger
	now        func() time.Time
}

// New builds a Notifier with one instrumented client per target, so each
// target has its own circuit breaker. metrics may be nil.
func New(cfg *config.WebhookConfig, metrics *telemetry.Metrics, logger *slog.Logger) (*Notifier, error) {
	if len(cfg.Targets) == 0 {
		return nil, errors.New("webhook: no targets configured")
	}

	targets := make([]target, 0, len(cfg.Targets))
	for _, raw := range cfg.Targets {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("webhook: parsing target %q: %w", raw, err)
		}
		targets = append(targets, target{
			url:    raw,
			client: httpclient.New(&cfg.Client, "webhook:"+u.Host, metrics, logger),
		})
	}

	queueSize := max(cfg.QueueSize, 1)

	return &Notifier{
		targets:    targets,
		secret:     []byte(cfg.Secret),
		maxWorkers: max(cfg.MaxWorkers, 1),
		queue:      make(chan delivery, queueSize),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Notify is a ports.Listener. It never blocks: when the queue is full the
// oldest pending snapshot is discarded, since a newer snapshot supersedes it.
func (n *Notifier) Notify(ctx context.Context, projects []project.Project) {
	d := delivery{
		requestID: httpclient.RequestIDFrom(ctx),
		projects:  projects,
		at:        n.now(),
	}

	for {
		select {
		case n.queue <- d:
			return
		default:
		}

		select {
		case old := <-n.queue:
			n.logger.WarnContext(ctx, "webhook queue full, dropping oldest snapshot",
				slog.Int("dropped_count", len(old.projects)),
			)
		default:
		}
	}
}

// Run delivers queued snapshots until ctx is canceled. Snapshots still queued
// at that point are discarded.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-n.queue:
			dctx := ctx
			if d.requestID != "" {
				dctx = httpclient.WithRequestID(ctx, d.requestID)
			}
			if err := n.deliver(dctx, d); err != nil {
				n.logger.ErrorContext(dctx, "webhook delivery failed",
					slog.String("operation", "webhook.deliver"),
					slog.Int("count", len(d.projects)),
					slog.Any("error", err),
				)
			}
		}
	}
}

// deliver sends one snapshot to every target concurrently and joins the
// per-target errors.
func (n *Notifier) deliver(ctx context.Context, d delivery) error {
	body, err := json.Marshal(event.NewSnapshot(d.projects, d.at))
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	results := fanout.Run(ctx, n.maxWorkers, n.targets, func(ctx context.Context, t target) (int, error) {
		return n.post(ctx, t, body)
	})
	return fanout.Join(results)
}

func (n *Notifier) post(ctx context.Context, t target, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%s: building request: %w", t.url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, event.TypeSnapshot)
	if len(n.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(n.secret, body))
	}

	// Do returns the final response alongside the error once retries on a
	// 5xx or 429 are exhausted.
	resp, err := t.client.Do(ctx, req)
	if resp != nil {
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()
		if resp.StatusCode >= http.StatusBadRequest {
			return resp.StatusCode, fmt.Errorf("%s: %w", t.url, statusError(resp))
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", t.url, err)
	}
	return resp.StatusCode, nil
}

// Name implements ports.HealthChecker.
func (n *Notifier) Name() string {
	return "webhook"
}

// HealthCheck reports every target whose circuit breaker is not closed.
func (n *Notifier) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, t := range n.targets {
		if err := t.client.HealthCheck(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sign returns the X-Signature-256 value for body: "sha256=" followed by the
// hex HMAC-SHA256 of body keyed with secret.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body under secret, in constant
// time. Receivers use it to authenticate deliveries.
func Verify(secret, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}
