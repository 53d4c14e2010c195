package health_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/projectboard/internal/platform/health"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                      { return s.name }
func (s stubChecker) HealthCheck(context.Context) error { return s.err }

// hangingChecker blocks until its context ends.
type hangingChecker struct{ name string }

func (h hangingChecker) Name() string { return h.name }
func (h hangingChecker) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCheckAll_Empty(t *testing.T) {
	t.Parallel()

	results := health.New().CheckAll(context.Background())

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestCheckAll_MixedResults(t *testing.T) {
	t.Parallel()

	errDown := errors.New("nats: disconnected")

	r := health.New()
	r.Register(stubChecker{name: "webhook"})
	r.Register(stubChecker{name: "nats", err: errDown})

	results := r.CheckAll(context.Background())

	require.Len(t, results, 2)
	assert.NoError(t, results["webhook"])
	assert.ErrorIs(t, results["nats"], errDown)
}

func TestCheckAll_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := health.New()
	r.Register(stubChecker{name: "webhook"})

	results := r.CheckAll(ctx)

	require.Contains(t, results, "webhook")
	assert.ErrorIs(t, results["webhook"], context.Canceled)
}

func TestCheckAll_HungCheckTimesOut(t *testing.T) {
	t.Parallel()

	r := health.New(health.WithCheckTimeout(20 * time.Millisecond))
	r.Register(hangingChecker{name: "nats"})
	r.Register(stubChecker{name: "webhook"})

	start := time.Now()
	results := r.CheckAll(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, results["nats"], context.DeadlineExceeded)
	assert.NoError(t, results["webhook"])
}

func TestRegister_SameNameReplaces(t *testing.T) {
	t.Parallel()

	errDown := errors.New("down")

	r := health.New()
	r.Register(stubChecker{name: "nats", err: errDown})
	r.Register(stubChecker{name: "nats"})

	results := r.CheckAll(context.Background())

	require.Len(t, results, 1)
	assert.NoError(t, results["nats"])
}

func TestRegister_ConcurrentSafe(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Register(stubChecker{name: string(rune('a' + n))})
			_ = r.CheckAll(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.CheckAll(context.Background()), 20)
}
