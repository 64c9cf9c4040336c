package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Initializer prepares a resource before the service starts serving.
type Initializer interface {
	Init(ctx context.Context) error
}

// Parallel runs fns concurrently and returns their results in order.
// The first error cancels the context handed to the others.
func Parallel[T any](ctx context.Context, fns ...func(context.Context) (T, error)) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]T, len(fns))

	for i, fn := range fns {
		g.Go(func() error {
			result, err := fn(ctx)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel execution failed: %w", err)
	}

	return results, nil
}

// InitAll runs every initializer concurrently.
func InitAll(ctx context.Context, inits ...Initializer) error {
	fns := make([]func(context.Context) (struct{}, error), len(inits))
	for i, in := range inits {
		fns[i] = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, in.Init(ctx)
		}
	}

	_, err := Parallel(ctx, fns...)

	return err
}
