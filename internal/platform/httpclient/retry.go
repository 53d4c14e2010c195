package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
)

// jitterFraction bounds the random spread applied to each delay (±25%).
const jitterFraction = 0.25

// doWithRetry sends req up to maxAttempts times. The body is buffered once
// and replayed on every attempt. A Retry-After hint from the receiver
// replaces the computed backoff, capped at maxInterval. When the last attempt
// still fails with a retryable status, that response is written to resp with
// its body open; the caller closes it.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retryCfg.maxAttempts)
	}

	body, err := bufferRequestBody(req)
	if err != nil {
		return err
	}

	var (
		lastErr error
		hint    time.Duration
	)
	for attempt := range c.retryCfg.maxAttempts {
		if attempt > 0 {
			delay := backoff(attempt, c.retryCfg)
			if hint > 0 {
				delay = min(hint, c.retryCfg.maxInterval)
			}
			if err := c.sleep(ctx, req, attempt, delay, lastErr); err != nil {
				return err
			}
		}

		resetRequestBody(req, body)

		r, err := c.httpClient.Do(req)
		if err != nil {
			if !isRetryable(err) {
				return err
			}
			lastErr, hint = err, 0
			continue
		}

		if !isRetryableStatus(r.StatusCode) {
			*resp = r
			return nil
		}

		lastErr = fmt.Errorf("%s answered %d", c.peer, r.StatusCode)
		if attempt == c.retryCfg.maxAttempts-1 {
			*resp = r
			return lastErr
		}

		hint = retryAfter(r.Header.Get("Retry-After"), time.Now())
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}

	return lastErr
}

func bufferRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return b, nil
}

func resetRequestBody(req *http.Request, body []byte) {
	if body == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
}

// sleep logs the upcoming retry and waits for delay or ctx cancellation.
func (c *Client) sleep(ctx context.Context, req *http.Request, attempt int, delay time.Duration, lastErr error) error {
	logging.FromContext(ctx).WarnContext(ctx, "retrying outbound request",
		slog.String("operation", "httpclient.Do"),
		slog.String("peer_service", c.peer),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", c.retryCfg.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff returns the jittered exponential delay before retry number attempt
// (1 is the first retry). The pre-jitter delay never exceeds maxInterval.
func backoff(attempt int, cfg retryConfig) time.Duration {
	base := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))
	base = math.Min(base, float64(cfg.maxInterval))

	spread := base * jitterFraction
	delay := base + spread*(2*rand.Float64()-1)
	return time.Duration(math.Max(delay, 0))
}

// retryAfter parses a Retry-After header given either as delta seconds or as
// an HTTP date. Zero means no usable hint.
func retryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// isRetryable reports whether a transport error is worth another attempt.
// Cancellation and deadline errors are final; anything else (DNS, refused
// connections, resets) is retried.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// isRetryableStatus is true for 429 and every 5xx.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
