// Package records persists assessment records. A Postgres implementation backs
// nineboxd in production; the in-memory implementation serves the CLI, local
// development and tests.
package records

import (
	"context"
	"errors"
	"time"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

var (
	// ErrNotFound is returned when no record matches the requested ID or key.
	ErrNotFound = errors.New("assessment record not found")
	// ErrConflict is returned when a record already exists for the same
	// employee, manager and period.
	ErrConflict = errors.New("assessment record already exists for this employee, manager and period")
	// ErrStale is returned by UpdateResult when the record was written, or
	// removed, after the caller read it.
	ErrStale = errors.New("assessment record changed since it was read")
)

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	EmployeeID string
	ManagerID  string
	Period     string
	Status     assessment.Status
}

// Matches reports whether rec satisfies every non-empty filter field.
func (f Filter) Matches(rec *assessment.Record) bool {
	if f.EmployeeID != "" && rec.EmployeeID != f.EmployeeID {
		return false
	}
	if f.ManagerID != "" && rec.ManagerID != f.ManagerID {
		return false
	}
	if f.Period != "" && rec.Period != f.Period {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	return true
}

// Repository stores assessment records. List methods return records ordered
// by most recently updated first.
type Repository interface {
	Create(ctx context.Context, rec *assessment.Record) (*assessment.Record, error)
	Get(ctx context.Context, id string) (*assessment.Record, error)
	GetByKey(ctx context.Context, key assessment.Key) (*assessment.Record, error)
	Update(ctx context.Context, rec *assessment.Record) (*assessment.Record, error)
	// UpdateResult replaces only the stored scores of record id, provided its
	// UpdatedAt still equals seen. Answers, status and scope are left alone.
	UpdateResult(ctx context.Context, id string, seen time.Time, res scoring.ScoreResult) (*assessment.Record, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID, period string) ([]*assessment.Record, error)
	ListByPeriod(ctx context.Context, period string) ([]*assessment.Record, error)
	List(ctx context.Context, filter Filter) ([]*assessment.Record, error)
}
