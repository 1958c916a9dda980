// Package fanout runs independent application-layer reads concurrently, such
// as the page query and the total count behind a paginated listing.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is an independent unit of work for All. Tasks write their results into
// variables captured by the closure; those are safe to read once All returns.
type Task func(context.Context) error

// All starts every task and waits for all of them to return. The first
// failure cancels the context handed to the remaining tasks and is returned.
// Nil tasks are skipped.
func All(ctx context.Context, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		if task == nil {
			continue
		}
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}
