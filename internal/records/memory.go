package records

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

// MemoryRepository is a mutex-guarded in-process Repository. Records are
// copied on the way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*assessment.Record
	now     func() time.Time
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]*assessment.Record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryRepository) Create(_ context.Context, rec *assessment.Record) (*assessment.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := rec.Key()
	for _, existing := range m.records {
		if existing.Key() == key {
			return nil, ErrConflict
		}
	}

	stored := rec.Clone()
	stored.ID = uuid.NewString()
	now := m.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Status == "" {
		stored.Status = assessment.StatusDraft
	}
	m.records[stored.ID] = stored
	return stored.Clone(), nil
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*assessment.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *MemoryRepository) GetByKey(_ context.Context, key assessment.Key) (*assessment.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.Key() == key {
			return rec.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Update(_ context.Context, rec *assessment.Record) (*assessment.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[rec.ID]
	if !ok {
		return nil, ErrNotFound
	}

	stored := rec.Clone()
	stored.EmployeeID = existing.EmployeeID
	stored.ManagerID = existing.ManagerID
	stored.Period = existing.Period
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = m.now()
	m.records[stored.ID] = stored
	return stored.Clone(), nil
}

func (m *MemoryRepository) UpdateResult(_ context.Context, id string, seen time.Time, res scoring.ScoreResult) (*assessment.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok || !existing.UpdatedAt.Equal(seen) {
		return nil, ErrStale
	}

	next := *existing
	next.Result = res
	next.UpdatedAt = m.now()
	stored := next.Clone()
	m.records[id] = stored
	return stored.Clone(), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryRepository) ListByEmployee(ctx context.Context, employeeID, period string) ([]*assessment.Record, error) {
	return m.List(ctx, Filter{EmployeeID: employeeID, Period: period})
}

func (m *MemoryRepository) ListByPeriod(ctx context.Context, period string) ([]*assessment.Record, error) {
	return m.List(ctx, Filter{Period: period})
}

func (m *MemoryRepository) List(_ context.Context, filter Filter) ([]*assessment.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*assessment.Record
	for _, rec := range m.records {
		if filter.Matches(rec) {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
