package review

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninebox/ninebox/internal/blob"
	"github.com/ninebox/ninebox/internal/cache"
	"github.com/ninebox/ninebox/internal/logger"
	"github.com/ninebox/ninebox/internal/records"
	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

func newTestService(t *testing.T) (*Service, *records.MemoryRepository) {
	t.Helper()
	repo := records.NewMemoryRepository()
	svc := NewService(repo, blob.NewLocalStorage(t.TempDir()),
		WithCache(cache.NewLRU(10)),
		WithLogger(logger.NewTestLogger(t)),
		WithConcurrency(4),
	)
	return svc, repo
}

func draft(in scoring.AssessmentInput) DraftRequest {
	return DraftRequest{EmployeeID: "emp-1", ManagerID: "mgr-1", Period: "2026-H1", Input: in}
}

func TestPreview(t *testing.T) {
	svc, _ := newTestService(t)

	res := svc.Preview(scoring.AssessmentInput{
		Q1Score: scoring.Int(5), Q2Score: scoring.Int(4),
		Q3_1: scoring.Bool(true), Q3_2: scoring.Bool(true), Q3_3: scoring.Int(1),
		Q3_4: scoring.Bool(true), Q3_5: scoring.Int(1), Q3_6Score: scoring.Float(0),
		Q3_7Score: scoring.Int(10), Q3_8Score: scoring.Int(10),
	})
	assert.Equal(t, 9, res.PerformanceScore)
	assert.Equal(t, 2, res.PerformanceCategory)
	assert.Equal(t, 35, res.PotentialScore)
	assert.Equal(t, 0, res.PotentialCategory)
	assert.NotEmpty(t, res.Warnings)
}

func TestSaveDraftCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.SaveDraft(ctx, draft(scoring.AssessmentInput{Q1Score: scoring.Int(3)}))
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusDraft, first.Status)
	assert.Equal(t, 3, first.Result.PerformanceScore)

	second, err := svc.SaveDraft(ctx, draft(scoring.AssessmentInput{Q1Score: scoring.Int(3), Q2Score: scoring.Int(2)}))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same scope should update the existing draft")
	assert.Equal(t, 5, second.Result.PerformanceScore)
	assert.Equal(t, 1, second.Result.PerformanceCategory)
}

func TestSaveDraftRequiresScope(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SaveDraft(context.Background(), DraftRequest{EmployeeID: "emp-1", Period: " "})
	require.ErrorIs(t, err, ErrMissingScope)
	assert.Contains(t, err.Error(), "manager_id")
	assert.Contains(t, err.Error(), "period")
}

func TestSubmitLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec, err := svc.SaveDraft(ctx, draft(scoring.AssessmentInput{
		Q1Score: scoring.Int(4), Q2Score: scoring.Int(3),
		Q3_3: scoring.Int(2), Q3_5: scoring.Int(2), Q3_6Score: scoring.Float(4),
	}))
	require.NoError(t, err)

	// Warm the cache so Submit must invalidate it.
	_, err = svc.Get(ctx, rec.ID)
	require.NoError(t, err)

	submitted, err := svc.Submit(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, 7, submitted.Result.PerformanceScore)
	assert.Equal(t, 1, submitted.Result.PerformanceCategory)
	assert.Equal(t, 2+2+4, submitted.Result.PotentialScore)
	assert.Equal(t, 2, submitted.Result.PotentialCategory)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.Submitted(), "Get must not serve the stale cached draft")

	_, err = svc.Submit(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	_, err = svc.UpdateAnswers(ctx, rec.ID, scoring.AssessmentInput{})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	_, err = svc.SaveDraft(ctx, draft(scoring.AssessmentInput{}))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitRejectsOutOfDomainAnswers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec, err := svc.SaveDraft(ctx, draft(scoring.AssessmentInput{Q1Score: scoring.Int(99)}))
	require.NoError(t, err)
	assert.Equal(t, 99, rec.Result.PerformanceScore, "drafts score literally")

	_, err = svc.Submit(ctx, rec.ID)
	require.ErrorIs(t, err, assessment.ErrInvalidAnswers)
	var verr *assessment.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "q1_score", verr.Fields[0].Field)

	still, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, still.Submitted())
}

func TestUpdateAnswersAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec, err := svc.SaveDraft(ctx, draft(scoring.AssessmentInput{}))
	require.NoError(t, err)
	_, err = svc.Get(ctx, rec.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateAnswers(ctx, rec.ID, scoring.AssessmentInput{Q3_4: scoring.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Result.PotentialScore)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Result.PotentialScore)

	_, err = svc.UpdateAnswers(ctx, "missing", scoring.AssessmentInput{})
	assert.ErrorIs(t, err, records.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	_, err = svc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, rec.ID), records.ErrNotFound)
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, req := range []DraftRequest{
		{EmployeeID: "emp-1", ManagerID: "mgr-1", Period: "2026-H1"},
		{EmployeeID: "emp-1", ManagerID: "mgr-1", Period: "2026-H2"},
		{EmployeeID: "emp-2", ManagerID: "mgr-1", Period: "2026-H1"},
	} {
		_, err := svc.SaveDraft(ctx, req)
		require.NoError(t, err)
	}

	recs, err := svc.ListForEmployee(ctx, "emp-1", "")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = svc.ListForEmployee(ctx, "emp-1", "2026-H2")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = svc.ListForPeriod(ctx, "2026-H1")
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = svc.ListForEmployee(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingScope)
	_, err = svc.ListForPeriod(ctx, "")
	assert.ErrorIs(t, err, ErrMissingScope)
}

func TestScoreBatchPreservesOrder(t *testing.T) {
	svc, _ := newTestService(t)

	inputs := make([]scoring.AssessmentInput, 50)
	for i := range inputs {
		inputs[i] = scoring.AssessmentInput{Q3_7Score: scoring.Int(i%10 + 1)}
	}

	results, err := svc.ScoreBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))
	for i, res := range results {
		assert.Equal(t, scoring.ComputeScores(inputs[i]), res, "result %d", i)
	}
}

func TestScoreBatchCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ScoreBatch(ctx, []scoring.AssessmentInput{{}, {}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	a, err := svc.SaveDraft(ctx, DraftRequest{
		EmployeeID: "emp-1", ManagerID: "mgr-1", Period: "2026-H1",
		Input: scoring.AssessmentInput{Q1Score: scoring.Int(4), Q2Score: scoring.Int(4)},
	})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, a.ID)
	require.NoError(t, err)
	_, err = svc.SaveDraft(ctx, DraftRequest{EmployeeID: "emp-2", ManagerID: "mgr-1", Period: "2026-H1"})
	require.NoError(t, err)

	receipt, err := svc.Export(ctx, "2026-H1")
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.Count)
	assert.NotEmpty(t, receipt.StorageRef)

	data, err := svc.GetExport(ctx, "2026-H1", receipt.ID)
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, receipt.ID, doc.ID)
	assert.Equal(t, 2, doc.Count)
	assert.Equal(t, 1, doc.Submitted)
	assert.Equal(t, 1, doc.Distribution.Performance["2"])
	assert.Equal(t, 1, doc.Distribution.Performance["0"])
	assert.Equal(t, 2, doc.Distribution.Potential["0"])
	assert.Equal(t, 1, doc.Distribution.Grid["2/0"])
	assert.Len(t, doc.Records, 2)

	_, err = svc.GetExport(ctx, "2026-H1", "nope")
	assert.ErrorIs(t, err, blob.ErrNotFound)

	_, err = svc.Export(ctx, "")
	assert.ErrorIs(t, err, ErrMissingScope)
}

func TestExportEmptyPeriod(t *testing.T) {
	svc, _ := newTestService(t)

	receipt, err := svc.Export(context.Background(), "2030-H1")
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.Count)
}

// gatedGet holds the first Get after it has read the repository until release
// is closed.
type gatedGet struct {
	records.Repository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func newGatedGet(repo records.Repository) *gatedGet {
	return &gatedGet{Repository: repo, read: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedGet) Get(ctx context.Context, id string) (*assessment.Record, error) {
	rec, err := g.Repository.Get(ctx, id)
	g.once.Do(func() {
		close(g.read)
		<-g.release
	})
	return rec, err
}

func TestGetDoesNotCacheReadOverlappingSubmit(t *testing.T) {
	ctx := context.Background()
	repo := newGatedGet(records.NewMemoryRepository())
	svc := NewService(repo, blob.NewLocalStorage(t.TempDir()),
		WithCache(cache.NewLRU(10)),
		WithLogger(logger.NewTestLogger(t)),
	)

	rec, err := svc.SaveDraft(ctx, draft(scoring.AssessmentInput{Q1Score: scoring.Int(3)}))
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		getErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, getErr = svc.Get(ctx, rec.ID)
	}()

	<-repo.read
	_, err = svc.Submit(ctx, rec.ID)
	require.NoError(t, err)
	close(repo.release)
	wg.Wait()
	require.NoError(t, getErr)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusSubmitted, got.Status)
}
