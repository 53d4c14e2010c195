// Package httpclient is the outbound HTTP client used for webhook
// deliveries. A request passes through, outermost first:
//
//	circuit breaker → rate limiter → headers → span → retry → transport
//
// Build one Client per receiving peer so that a failing receiver trips only
// its own breaker:
//
//	client := httpclient.New(&cfg.Webhook.Client, "webhook:hooks.example.com", metrics, logger)
//	resp, err := client.Do(ctx, req)
//
// The ID of the inbound request that caused a delivery rides in ctx
// (WithRequestID) and is sent as X-Request-ID.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/projectboard/internal/platform/config"
	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
	"github.com/jsamuelsen11/projectboard/internal/platform/telemetry"
)

const (
	// RequestIDHeader carries the originating request ID on outbound calls.
	RequestIDHeader = "X-Request-ID"

	// UserAgent identifies deliveries to receivers.
	UserAgent = "projectboard-webhook/1"
)

type requestIDKey struct{}

// WithRequestID stores the inbound request ID for outbound requests made
// with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Client sends requests to one peer.
type Client struct {
	httpClient *http.Client
	peer       string
	breaker    *gobreaker.CircuitBreaker[struct{}]
	limiter    *rate.Limiter // nil: unlimited
	retryCfg   retryConfig
	metrics    *telemetry.Metrics
}

// New builds a Client for peer, the name used in spans, metrics and breaker
// logs. metrics and logger may be nil.
func New(cfg *config.ClientConfig, peer string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	logger = logging.OrDiscard(logger)

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		peer:       peer,
		breaker:    newBreaker(peer, cfg.CircuitBreaker, logger),
		limiter:    limiter,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
	}
}

// newBreaker trips after MaxFailures consecutive failed deliveries. A
// delivery abandoned because its context ended (the worker shutting down)
// says nothing about the peer and does not count.
func newBreaker(peer string, cfg config.CircuitBreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        peer,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// Do sends req. On success resp has an open body the caller closes. When
// retries on 5xx/429 run out, both resp (body open) and err are returned.
// On breaker rejection, rate-limit cancellation or transport failure, resp
// is nil.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	var resp *http.Response
	_, err := c.breaker.Execute(func() (struct{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return struct{}{}, err
			}
		}

		req.Header.Set("User-Agent", UserAgent)
		if id := RequestIDFrom(ctx); id != "" {
			req.Header.Set(RequestIDHeader, id)
		}

		spanCtx, span := c.startSpan(ctx, req)
		defer span.End()

		// The span context drives cancellation and trace propagation.
		req = req.WithContext(spanCtx)
		err := c.doWithRetry(spanCtx, req, &resp)
		finishSpan(span, resp, err)

		return struct{}{}, err
	})

	c.recordMetrics(ctx, req.Method, start, resp, err)
	return resp, err
}

// Name returns the peer; with HealthCheck it satisfies ports.HealthChecker.
func (c *Client) Name() string {
	return c.peer
}

// HealthCheck reports the breaker without touching the network: closed is
// healthy, half-open is degraded, open is failing.
func (c *Client) HealthCheck(_ context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.peer)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.peer)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.peer, state)
	}
}

func (c *Client) startSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := otel.GetTracerProvider().Tracer("httpclient").Start(ctx, "HTTP "+req.Method+" "+c.peer,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.peer),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return ctx, span
}

func finishSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordMetrics runs outside the breaker so rejected calls are counted too.
func (c *Client) recordMetrics(ctx context.Context, method string, start time.Time, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.peer),
		telemetry.AttrResult.String(outcome(status, err)),
	)
	c.metrics.ClientRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}

func outcome(status int, err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case status > 0 && status < http.StatusBadRequest:
		return "success"
	default:
		return "error"
	}
}

func toUint32(v int) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
