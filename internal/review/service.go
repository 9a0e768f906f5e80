// Package review orchestrates the assessment lifecycle: live previews, drafts,
// submission, rescoring of stored results and period exports.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ninebox/ninebox/internal/blob"
	"github.com/ninebox/ninebox/internal/cache"
	"github.com/ninebox/ninebox/internal/logger"
	"github.com/ninebox/ninebox/internal/metrics"
	"github.com/ninebox/ninebox/internal/records"
	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

var (
	// ErrAlreadySubmitted is returned when a submitted record is edited or
	// submitted again.
	ErrAlreadySubmitted = errors.New("assessment already submitted")
	// ErrMissingScope is returned when a draft lacks an employee, manager or period.
	ErrMissingScope = errors.New("employee_id, manager_id and period are required")
)

const defaultConcurrency = 8

// Metric source labels.
const (
	sourcePreview = "preview"
	sourceDraft   = "draft"
	sourceUpdate  = "update"
	sourceSubmit  = "submit"
	sourceRescore = "rescore"
	sourceBatch   = "batch"
)

// DraftRequest creates or replaces the draft for one employee, manager and period.
type DraftRequest struct {
	EmployeeID string                  `json:"employee_id"`
	ManagerID  string                  `json:"manager_id"`
	Period     string                  `json:"period"`
	Input      scoring.AssessmentInput `json:"input"`
}

func (r DraftRequest) key() assessment.Key {
	return assessment.Key{
		EmployeeID: strings.TrimSpace(r.EmployeeID),
		ManagerID:  strings.TrimSpace(r.ManagerID),
		Period:     strings.TrimSpace(r.Period),
	}
}

// Service implements the review workflow on top of a records.Repository.
type Service struct {
	repo        records.Repository
	cache       cache.Cache
	storage     blob.StorageClient
	engine      *scoring.Engine
	log         logger.Logger
	concurrency int
	now         func() time.Time

	// writes counts completed writes; Get uses it to drop a cache fill that
	// raced with one.
	writes atomic.Uint64
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the record cache. Defaults to no caching.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithEngine replaces the default scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithLogger sets the service logger. Defaults to a no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithConcurrency bounds the workers used by Rescore and ScoreBatch.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a review Service.
func NewService(repo records.Repository, storage blob.StorageClient, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		cache:       cache.Nop{},
		storage:     storage,
		engine:      scoring.Default(),
		log:         logger.NewNoOpLogger(),
		concurrency: defaultConcurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the scoring engine used by the service.
func (s *Service) Engine() *scoring.Engine {
	return s.engine
}

func (s *Service) compute(in scoring.AssessmentInput, source string) scoring.ScoreResult {
	metrics.AssessmentsScored.WithLabelValues(source).Inc()
	return s.engine.Compute(in)
}

// Preview scores answers without validating or persisting them. Partial
// answers are expected while a form is being filled in.
func (s *Service) Preview(in scoring.AssessmentInput) scoring.ScoreResult {
	return s.compute(in, sourcePreview)
}

// SaveDraft creates the draft for the request's scope, or replaces the answers
// of the existing draft.
func (s *Service) SaveDraft(ctx context.Context, req DraftRequest) (*assessment.Record, error) {
	key := req.key()
	var missing []string
	if key.EmployeeID == "" {
		missing = append(missing, "employee_id")
	}
	if key.ManagerID == "" {
		missing = append(missing, "manager_id")
	}
	if key.Period == "" {
		missing = append(missing, "period")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMissingScope, strings.Join(missing, ", "))
	}

	existing, err := s.repo.GetByKey(ctx, key)
	switch {
	case errors.Is(err, records.ErrNotFound):
		rec := assessment.NewRecord(key, req.Input, s.engine)
		metrics.AssessmentsScored.WithLabelValues(sourceDraft).Inc()
		created, err := s.repo.Create(ctx, rec)
		if errors.Is(err, records.ErrConflict) {
			// Lost a race with a concurrent create; fall through to update it.
			existing, err = s.repo.GetByKey(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("save draft: %w", err)
			}
			return s.replaceAnswers(ctx, existing, req.Input, sourceDraft)
		}
		if err != nil {
			return nil, fmt.Errorf("save draft: %w", err)
		}
		s.log.Info("draft created", logger.Fields{
			"id": created.ID, "employee_id": key.EmployeeID, "period": key.Period,
		})
		return created, nil
	case err != nil:
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return s.replaceAnswers(ctx, existing, req.Input, sourceDraft)
}

// UpdateAnswers replaces the answers of a draft and recomputes its scores.
func (s *Service) UpdateAnswers(ctx context.Context, id string, in scoring.AssessmentInput) (*assessment.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update answers: %w", err)
	}
	return s.replaceAnswers(ctx, rec, in, sourceUpdate)
}

func (s *Service) replaceAnswers(ctx context.Context, rec *assessment.Record, in scoring.AssessmentInput, source string) (*assessment.Record, error) {
	if rec.Submitted() {
		return nil, fmt.Errorf("update %s: %w", rec.ID, ErrAlreadySubmitted)
	}
	metrics.AssessmentsScored.WithLabelValues(source).Inc()
	rec.SetInput(in, s.engine)

	updated, err := s.repo.Update(ctx, rec)
	s.invalidate(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", rec.ID, err)
	}
	return updated, nil
}

// Submit validates the answers strictly, recomputes the scores and finalizes
// the record. Submitted records are immutable.
func (s *Service) Submit(ctx context.Context, id string) (*assessment.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if rec.Submitted() {
		return nil, fmt.Errorf("submit %s: %w", id, ErrAlreadySubmitted)
	}
	if err := assessment.Validate(rec.Input); err != nil {
		return nil, fmt.Errorf("submit %s: %w", id, err)
	}

	rec.Result = s.compute(rec.Input, sourceSubmit)
	now := s.now()
	rec.Status = assessment.StatusSubmitted
	rec.SubmittedAt = &now

	updated, err := s.repo.Update(ctx, rec)
	s.invalidate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", id, err)
	}

	metrics.ObserveCategories(updated.Result.PerformanceCategory, updated.Result.PotentialCategory)
	s.log.Info("assessment submitted", logger.Fields{
		"id":                   id,
		"employee_id":          updated.EmployeeID,
		"period":               updated.Period,
		"performance_category": updated.Result.PerformanceCategory,
		"potential_category":   updated.Result.PotentialCategory,
	})
	return updated, nil
}

// Get returns a record, consulting the cache first.
func (s *Service) Get(ctx context.Context, id string) (*assessment.Record, error) {
	if rec, ok := s.cache.Get(ctx, id); ok {
		return rec, nil
	}
	seen := s.writes.Load()
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, rec)
	if s.writes.Load() != seen {
		// A write landed between the read and the fill; rec may predate it.
		s.cache.Invalidate(ctx, id)
	}
	return rec, nil
}

// invalidate drops id from the cache after a write to the repository.
func (s *Service) invalidate(ctx context.Context, id string) {
	s.writes.Add(1)
	s.cache.Invalidate(ctx, id)
}

// ListForEmployee returns an employee's records, optionally limited to one period.
func (s *Service) ListForEmployee(ctx context.Context, employeeID, period string) ([]*assessment.Record, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, fmt.Errorf("%w: missing employee_id", ErrMissingScope)
	}
	return s.repo.ListByEmployee(ctx, employeeID, period)
}

// ListForPeriod returns every record of a review period.
func (s *Service) ListForPeriod(ctx context.Context, period string) ([]*assessment.Record, error) {
	if strings.TrimSpace(period) == "" {
		return nil, fmt.Errorf("%w: missing period", ErrMissingScope)
	}
	return s.repo.ListByPeriod(ctx, period)
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	s.invalidate(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info("assessment deleted", logger.Fields{"id": id})
	return nil
}
