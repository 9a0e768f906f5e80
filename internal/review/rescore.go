package review

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ninebox/ninebox/internal/logger"
	"github.com/ninebox/ninebox/internal/metrics"
	"github.com/ninebox/ninebox/internal/records"
	"github.com/ninebox/ninebox/pkg/assessment"
)

// RescoreReport summarizes a Rescore run.
type RescoreReport struct {
	Period  string `json:"period,omitempty"`
	Checked int    `json:"checked"`
	Drifted int    `json:"drifted"`
	Errors  int    `json:"errors"`
}

// Rescore recomputes the stored result of every record in period (every
// period when empty) and persists the rows whose scores changed. Only the
// scores are written, and a record written since it was listed is skipped:
// that write already scored it with the current engine. Failures on
// individual records are counted and logged; only listing failures and
// context cancellation abort the run.
func (s *Service) Rescore(ctx context.Context, period string) (RescoreReport, error) {
	report := RescoreReport{Period: period}

	recs, err := s.repo.List(ctx, records.Filter{Period: period})
	if err != nil {
		return report, fmt.Errorf("rescore: list records: %w", err)
	}

	var checked, drifted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, rec := range recs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			checked.Add(1)
			metrics.AssessmentsScored.WithLabelValues(sourceRescore).Inc()
			if !rec.Rescore(s.engine) {
				return nil
			}

			drifted.Add(1)
			metrics.RescoreDrift.Inc()
			err := s.persistRescore(gctx, rec)
			switch {
			case errors.Is(err, records.ErrStale):
				s.log.Debug("rescore skipped concurrently written record", logger.Fields{"id": rec.ID})
			case err != nil:
				failed.Add(1)
				s.log.WithError(err).Warn("rescore update failed", logger.Fields{"id": rec.ID})
			}
			return nil
		})
	}

	err = g.Wait()
	report.Checked = int(checked.Load())
	report.Drifted = int(drifted.Load())
	report.Errors = int(failed.Load())
	if err != nil {
		return report, fmt.Errorf("rescore: %w", err)
	}

	s.log.Info("rescore complete", logger.Fields{
		"period":  period,
		"checked": report.Checked,
		"drifted": report.Drifted,
		"errors":  report.Errors,
	})
	return report, nil
}

func (s *Service) persistRescore(ctx context.Context, rec *assessment.Record) error {
	_, err := s.repo.UpdateResult(ctx, rec.ID, rec.UpdatedAt, rec.Result)
	s.invalidate(ctx, rec.ID)
	return err
}
