package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

func newRecord(emp, mgr, period string) *assessment.Record {
	return assessment.NewRecord(
		assessment.Key{EmployeeID: emp, ManagerID: mgr, Period: period},
		scoring.AssessmentInput{Q1Score: scoring.Int(4)},
		scoring.Default(),
	)
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryCreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create did not assign an ID")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("unexpected timestamps %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Result.PerformanceScore != 4 {
		t.Errorf("PerformanceScore = %d, want 4", got.Result.PerformanceScore)
	}

	// Mutating the returned copy must not touch the store.
	*got.Input.Q1Score = 1
	again, _ := repo.Get(ctx, created.ID)
	if *again.Input.Q1Score != 4 {
		t.Errorf("stored input was mutated through a returned copy")
	}
}

func TestMemoryCreateConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if _, err := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H1"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second Create error = %v, want ErrConflict", err)
	}
	if _, err := repo.Create(ctx, newRecord("emp-1", "mgr-2", "2026-H1")); err != nil {
		t.Fatalf("different manager should not conflict: %v", err)
	}
}

func TestMemoryGetByKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	created, _ := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H1"))

	got, err := repo.GetByKey(ctx, created.Key())
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByKey ID = %q, want %q", got.ID, created.ID)
	}

	_, err = repo.GetByKey(ctx, assessment.Key{EmployeeID: "nobody"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByKey(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.now = steppingClock()

	created, _ := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H1"))
	created.SetInput(scoring.AssessmentInput{Q1Score: scoring.Int(5), Q2Score: scoring.Int(4)}, scoring.Default())
	created.EmployeeID = "someone-else"

	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Result.PerformanceScore != 9 {
		t.Errorf("PerformanceScore = %d, want 9", updated.Result.PerformanceScore)
	}
	if updated.EmployeeID != "emp-1" {
		t.Errorf("Update changed the record scope to %q", updated.EmployeeID)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("UpdatedAt %v not after CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Update(ctx, created); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update after Delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpdateResult(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.now = steppingClock()

	created, _ := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H1"))
	res := scoring.ComputeScores(scoring.AssessmentInput{Q1Score: scoring.Int(5), Q2Score: scoring.Int(4)})

	updated, err := repo.UpdateResult(ctx, created.ID, created.UpdatedAt, res)
	if err != nil {
		t.Fatalf("UpdateResult: %v", err)
	}
	if updated.Result.PerformanceScore != 9 {
		t.Errorf("PerformanceScore = %d, want 9", updated.Result.PerformanceScore)
	}
	if *updated.Input.Q1Score != 4 || updated.Status != assessment.StatusDraft {
		t.Errorf("UpdateResult touched answers or status: %+v", updated)
	}

	// The row moved on, so the old timestamp no longer matches.
	if _, err := repo.UpdateResult(ctx, created.ID, created.UpdatedAt, res); !errors.Is(err, ErrStale) {
		t.Errorf("UpdateResult with old timestamp error = %v, want ErrStale", err)
	}
	if _, err := repo.UpdateResult(ctx, "missing", updated.UpdatedAt, res); !errors.Is(err, ErrStale) {
		t.Errorf("UpdateResult on missing record error = %v, want ErrStale", err)
	}
}

func TestMemoryListOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.now = steppingClock()

	a, _ := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H1"))
	b, _ := repo.Create(ctx, newRecord("emp-1", "mgr-1", "2026-H2"))
	c, _ := repo.Create(ctx, newRecord("emp-2", "mgr-1", "2026-H1"))

	// Touch a so it becomes the most recently updated.
	if _, err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	tests := []struct {
		name string
		list func() ([]*assessment.Record, error)
		want []string
	}{
		{
			name: "by employee across periods",
			list: func() ([]*assessment.Record, error) { return repo.ListByEmployee(ctx, "emp-1", "") },
			want: []string{a.ID, b.ID},
		},
		{
			name: "by employee in one period",
			list: func() ([]*assessment.Record, error) { return repo.ListByEmployee(ctx, "emp-1", "2026-H2") },
			want: []string{b.ID},
		},
		{
			name: "by period",
			list: func() ([]*assessment.Record, error) { return repo.ListByPeriod(ctx, "2026-H1") },
			want: []string{a.ID, c.ID},
		},
		{
			name: "everything",
			list: func() ([]*assessment.Record, error) { return repo.List(ctx, Filter{}) },
			want: []string{a.ID, c.ID, b.ID},
		},
		{
			name: "submitted only",
			list: func() ([]*assessment.Record, error) {
				return repo.List(ctx, Filter{Status: assessment.StatusSubmitted})
			},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.list()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tc.want))
			}
			for i, rec := range got {
				if rec.ID != tc.want[i] {
					t.Errorf("record %d = %s, want %s", i, rec.ID, tc.want[i])
				}
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	rec := newRecord("emp-1", "mgr-1", "2026-H1")
	if !(Filter{}).Matches(rec) {
		t.Error("empty filter should match")
	}
	if !(Filter{ManagerID: "mgr-1", Status: assessment.StatusDraft}).Matches(rec) {
		t.Error("manager+status filter should match")
	}
	if (Filter{ManagerID: "mgr-2"}).Matches(rec) {
		t.Error("other manager should not match")
	}
}
