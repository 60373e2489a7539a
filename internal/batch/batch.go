// Package batch runs independent units of work and collects every outcome,
// never stopping at the first failure.
package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one unit of work.
type Outcome[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// OK reports whether the unit succeeded.
func (o Outcome[T, R]) OK() bool { return o.Err == nil }

// Each runs fn for every item in order. A panic in fn is recovered and
// recorded as that item's error.
func Each[T, R any](items []T, fn func(T) (R, error)) []Outcome[T, R] {
	out := make([]Outcome[T, R], len(items))
	for i, item := range items {
		out[i] = run(item, fn)
	}
	return out
}

// Concurrent runs fn for every item at once, at most limit at a time when
// limit > 0. Outcomes keep the order of items. The returned error is only
// non-nil when ctx is cancelled.
func Concurrent[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) ([]Outcome[T, R], error) {
	out := make([]Outcome[T, R], len(items))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			out[i] = run(item, func(it T) (R, error) { return fn(gctx, it) })
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, ctx.Err()
}

// Failed returns the outcomes that carry an error.
func Failed[T, R any](outcomes []Outcome[T, R]) []Outcome[T, R] {
	var failed []Outcome[T, R]
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

func run[T, R any](item T, fn func(T) (R, error)) (o Outcome[T, R]) {
	o.Item = item
	defer func() {
		if r := recover(); r != nil {
			o.Err = fmt.Errorf("panic: %v", r)
		}
	}()
	o.Value, o.Err = fn(item)
	return o
}
