// Package batch runs independent per-file work on a bounded worker pool.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Runner executes n independent units of work.
//
// Run blocks until every dispatched unit has returned. The first error
// returned by any unit is reported; units not yet dispatched at that point
// are skipped and the context passed to running units is cancelled.
type Runner interface {
	Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// Pool is a Runner with a fixed number of workers. A Pool holds no per-run
// state and may be shared by concurrent batch calls.
type Pool struct {
	workers int
}

// NewPool creates a pool sized to the number of available CPUs
func NewPool() *Pool {
	return NewPoolWithWorkers(0)
}

// NewPoolWithWorkers creates a pool with the given number of workers;
// values below 1 select runtime.NumCPU()
func NewPoolWithWorkers(workers int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Workers returns the parallelism of the pool
func (p *Pool) Workers() int {
	return p.workers
}

// Run implements Runner
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// The parent may have been cancelled before any unit ran.
	return ctx.Err()
}

// Map applies fn to every item using r and returns the results indexed like items.
// No result is returned when any call fails.
func Map[T any](ctx context.Context, r Runner, items []string, fn func(ctx context.Context, item string) (T, error)) ([]T, error) {
	results := make([]T, len(items))
	err := r.Run(ctx, len(items), func(ctx context.Context, i int) error {
		v, err := fn(ctx, items[i])
		if err != nil {
			return err
		}
		results[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Each applies fn to every item using r
func Each(ctx context.Context, r Runner, items []string, fn func(ctx context.Context, item string) error) error {
	return r.Run(ctx, len(items), func(ctx context.Context, i int) error {
		return fn(ctx, items[i])
	})
}
