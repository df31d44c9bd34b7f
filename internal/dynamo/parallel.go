package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunOrdered evaluates fn for every index in [0, n) on up to workers
// goroutines. Each call owns its index, so results written by index keep
// input order regardless of scheduling. workers <= 0 uses GOMAXPROCS.
func RunOrdered(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		idx := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, idx)
		})
	}

	return g.Wait()
}
