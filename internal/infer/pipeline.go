package infer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alperekinci99/typefetch-cli/pkg/shape"
)

// decodeAll decodes every sample using a bounded worker pool.
func decodeAll(ctx context.Context, samples []Sample, workers int) ([]any, error) {
	docs := make([]any, len(samples))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, sm := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := shape.Decode(sm.Data)
			if err != nil {
				return fmt.Errorf("%s: %w", label(sm, i), err)
			}
			docs[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// extractAll extracts the shape of every value using a bounded worker pool.
func extractAll(ctx context.Context, values []any, workers int) ([]*shape.Shape, error) {
	shapes := make([]*shape.Shape, len(values))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, v := range values {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := shape.Extract(v)
			if err != nil {
				return fmt.Errorf("value %d: %w", i, err)
			}
			shapes[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return shapes, nil
}

// foldTree merges shapes pairwise, level by level. Merge is associative, so
// the result equals a left fold; neighbours are always merged left to right
// to keep first-sighting field order.
func foldTree(ctx context.Context, shapes []*shape.Shape, workers int) (*shape.Shape, error) {
	if len(shapes) == 0 {
		return nil, shape.ErrEmptySampleSet
	}

	level := shapes
	for len(level) > 1 {
		next := make([]*shape.Shape, (len(level)+1)/2)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range next {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				left := level[2*i]
				if 2*i+1 == len(level) {
					next[i] = left
					return nil
				}
				next[i] = shape.Merge(left, level[2*i+1])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		level = next
	}
	return level[0], nil
}
