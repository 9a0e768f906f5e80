package review

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// ScoreBatch scores independent inputs concurrently. Results are returned in
// input order.
func (s *Service) ScoreBatch(ctx context.Context, inputs []scoring.AssessmentInput) ([]scoring.ScoreResult, error) {
	results := make([]scoring.ScoreResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.compute(in, sourceBatch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
