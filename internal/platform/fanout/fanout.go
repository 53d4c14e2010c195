// Package fanout applies a function to every item of a slice on a bounded
// pool of goroutines. Results keep input order. The webhook notifier uses
// it to deliver one snapshot to several receivers, and the health registry
// uses it to run readiness checks side by side.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPanic marks a Result whose function panicked.
var ErrPanic = errors.New("fanout: function panicked")

// Result is the outcome for one item: Value on success, Err otherwise.
type Result[R any] struct {
	Value R
	Err   error
}

// Run starts min(maxWorkers, len(items)) workers that pull item indexes off
// a shared queue and call fn. maxWorkers below 1 means one worker.
//
// Once ctx is done, items not yet picked up get ctx.Err() and fn is not
// called for them. Items already running finish on their own. A panic in fn
// is recovered into that item's Err, wrapping ErrPanic.
//
// Run returns after every item has a result. Empty input yields an empty,
// non-nil slice.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}
	workers := min(max(maxWorkers, 1), len(items))

	queue := make(chan int, len(items))
	for i := range items {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx].Err = err
					continue
				}
				results[idx] = call(ctx, idx, items[idx], fn)
			}
		}()
	}
	wg.Wait()

	return results
}

func call[T, R any](ctx context.Context, idx int, item T, fn func(context.Context, T) (R, error)) (res Result[R]) {
	defer func() {
		if p := recover(); p != nil {
			res = Result[R]{Err: fmt.Errorf("%w: item %d: %v", ErrPanic, idx, p)}
		}
	}()
	v, err := fn(ctx, item)
	return Result[R]{Value: v, Err: err}
}

// Join combines the errors in results with errors.Join. It returns nil when
// every item succeeded.
func Join[R any](results []Result[R]) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
