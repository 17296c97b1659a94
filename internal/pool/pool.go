// Package pool runs per-item work across a bounded set of goroutines.
// Item failures are data, not control flow: each item's result or error
// travels in its Outcome, and one bad image never aborts the batch.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the concurrency used when the caller passes 0.
const DefaultWorkers = 5

// Outcome pairs an input item with its result or error.
type Outcome[T, R any] struct {
	Item T
	Value R
	Err  error
}

// Map applies fn to every item with at most workers goroutines in flight and
// streams outcomes in completion order. The returned channel closes once all
// items are accounted for. Cancelling ctx stops new work; items already
// running finish and report.
func Map[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error)) <-chan Outcome[T, R] {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	out := make(chan Outcome[T, R], len(items))

	g := &errgroup.Group{}
	g.SetLimit(workers)

	go func() {
		defer close(out)
		for _, item := range items {
			if ctx.Err() != nil {
				out <- Outcome[T, R]{Item: item, Err: ctx.Err()}
				continue
			}
			item := item
			g.Go(func() error {
				value, err := fn(ctx, item)
				out <- Outcome[T, R]{Item: item, Value: value, Err: err}
				// Errors stay in the outcome so a failed item does not
				// cancel the rest of the group.
				return nil
			})
		}
		g.Wait()
	}()

	return out
}

// Collect drains Map into a slice, invoking progress after each outcome with
// the running completion count. A nil progress is fine.
func Collect[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error), progress func(done, total int)) []Outcome[T, R] {
	outcomes := make([]Outcome[T, R], 0, len(items))
	for outcome := range Map(ctx, items, workers, fn) {
		outcomes = append(outcomes, outcome)
		if progress != nil {
			progress(len(outcomes), len(items))
		}
	}
	return outcomes
}
