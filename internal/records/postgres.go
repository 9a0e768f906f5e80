package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

const uniqueViolation = "23505"

// validID reports whether id can name a row. Anything else is reported as
// not found rather than sent to Postgres, which rejects it as a malformed uuid.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

const selectColumns = `id, employee_id, manager_id, period, status,
	q1_score, q2_score, q3_1_answer, q3_2_answer, q3_3_answer, q3_4_answer,
	q3_5_answer, q3_6_score, q3_7_score, q3_8_score,
	performance_score, performance_category, potential_score, potential_category,
	breakdown, warnings, created_at, updated_at, submitted_at`

// PostgresRepository stores records in the assessments table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a PostgresRepository over an open pool.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*assessment.Record, error) {
	rec := &assessment.Record{}
	in := &rec.Input
	res := &rec.Result
	var breakdown []byte
	var warnings []string
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.ManagerID, &rec.Period, &rec.Status,
		&in.Q1Score, &in.Q2Score, &in.Q3_1, &in.Q3_2, &in.Q3_3, &in.Q3_4,
		&in.Q3_5, &in.Q3_6Score, &in.Q3_7Score, &in.Q3_8Score,
		&res.PerformanceScore, &res.PerformanceCategory, &res.PotentialScore, &res.PotentialCategory,
		&breakdown, pq.Array(&warnings), &rec.CreatedAt, &rec.UpdatedAt, &rec.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &res.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown for %s: %w", rec.ID, err)
		}
	}
	if len(warnings) > 0 {
		res.Warnings = warnings
	}
	return rec, nil
}

func encodeBreakdown(b []scoring.RuleResult) ([]byte, error) {
	if b == nil {
		b = []scoring.RuleResult{}
	}
	return json.Marshal(b)
}

func warningsArray(w []string) any {
	if w == nil {
		w = []string{}
	}
	return pq.Array(w)
}

func (p *PostgresRepository) Create(ctx context.Context, rec *assessment.Record) (*assessment.Record, error) {
	breakdown, err := encodeBreakdown(rec.Result.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	status := rec.Status
	if status == "" {
		status = assessment.StatusDraft
	}

	in := rec.Input
	res := rec.Result
	row := p.db.QueryRowContext(ctx,
		`INSERT INTO assessments (employee_id, manager_id, period, status,
		        q1_score, q2_score, q3_1_answer, q3_2_answer, q3_3_answer, q3_4_answer,
		        q3_5_answer, q3_6_score, q3_7_score, q3_8_score,
		        performance_score, performance_category, potential_score, potential_category,
		        breakdown, warnings, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		 RETURNING `+selectColumns,
		rec.EmployeeID, rec.ManagerID, rec.Period, status,
		in.Q1Score, in.Q2Score, in.Q3_1, in.Q3_2, in.Q3_3, in.Q3_4,
		in.Q3_5, in.Q3_6Score, in.Q3_7Score, in.Q3_8Score,
		res.PerformanceScore, res.PerformanceCategory, res.PotentialScore, res.PotentialCategory,
		breakdown, warningsArray(res.Warnings), rec.SubmittedAt,
	)
	created, err := scanRecord(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return created, nil
}

func (p *PostgresRepository) Get(ctx context.Context, id string) (*assessment.Record, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	rec, err := scanRecord(p.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM assessments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return rec, nil
}

func (p *PostgresRepository) GetByKey(ctx context.Context, key assessment.Key) (*assessment.Record, error) {
	rec, err := scanRecord(p.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM assessments
		 WHERE employee_id = $1 AND manager_id = $2 AND period = $3`,
		key.EmployeeID, key.ManagerID, key.Period))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment for %s/%s/%s: %w", key.EmployeeID, key.ManagerID, key.Period, err)
	}
	return rec, nil
}

// Update rewrites answers, scores and status. The record's scope is immutable.
func (p *PostgresRepository) Update(ctx context.Context, rec *assessment.Record) (*assessment.Record, error) {
	if !validID(rec.ID) {
		return nil, ErrNotFound
	}
	breakdown, err := encodeBreakdown(rec.Result.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}

	in := rec.Input
	res := rec.Result
	updated, err := scanRecord(p.db.QueryRowContext(ctx,
		`UPDATE assessments SET
		        status = $2,
		        q1_score = $3, q2_score = $4, q3_1_answer = $5, q3_2_answer = $6,
		        q3_3_answer = $7, q3_4_answer = $8, q3_5_answer = $9, q3_6_score = $10,
		        q3_7_score = $11, q3_8_score = $12,
		        performance_score = $13, performance_category = $14,
		        potential_score = $15, potential_category = $16,
		        breakdown = $17, warnings = $18, submitted_at = $19,
		        updated_at = now()
		 WHERE id = $1
		 RETURNING `+selectColumns,
		rec.ID, rec.Status,
		in.Q1Score, in.Q2Score, in.Q3_1, in.Q3_2,
		in.Q3_3, in.Q3_4, in.Q3_5, in.Q3_6Score,
		in.Q3_7Score, in.Q3_8Score,
		res.PerformanceScore, res.PerformanceCategory,
		res.PotentialScore, res.PotentialCategory,
		breakdown, warningsArray(res.Warnings), rec.SubmittedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update assessment %s: %w", rec.ID, err)
	}
	return updated, nil
}

// UpdateResult rewrites only the score columns, and only while the row's
// updated_at still equals seen.
func (p *PostgresRepository) UpdateResult(ctx context.Context, id string, seen time.Time, res scoring.ScoreResult) (*assessment.Record, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	breakdown, err := encodeBreakdown(res.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}

	updated, err := scanRecord(p.db.QueryRowContext(ctx,
		`UPDATE assessments SET
		        performance_score = $3, performance_category = $4,
		        potential_score = $5, potential_category = $6,
		        breakdown = $7, warnings = $8,
		        updated_at = now()
		 WHERE id = $1 AND updated_at = $2
		 RETURNING `+selectColumns,
		id, seen,
		res.PerformanceScore, res.PerformanceCategory,
		res.PotentialScore, res.PotentialCategory,
		breakdown, warningsArray(res.Warnings),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, fmt.Errorf("update result of assessment %s: %w", id, err)
	}
	return updated, nil
}

func (p *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result, err := p.db.ExecContext(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assessment %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assessment %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresRepository) ListByEmployee(ctx context.Context, employeeID, period string) ([]*assessment.Record, error) {
	return p.List(ctx, Filter{EmployeeID: employeeID, Period: period})
}

func (p *PostgresRepository) ListByPeriod(ctx context.Context, period string) ([]*assessment.Record, error) {
	return p.List(ctx, Filter{Period: period})
}

func (p *PostgresRepository) List(ctx context.Context, filter Filter) ([]*assessment.Record, error) {
	query, args := buildListQuery(filter)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []*assessment.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func buildListQuery(filter Filter) (string, []any) {
	var clauses []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.EmployeeID != "" {
		add("employee_id", filter.EmployeeID)
	}
	if filter.ManagerID != "" {
		add("manager_id", filter.ManagerID)
	}
	if filter.Period != "" {
		add("period", filter.Period)
	}
	if filter.Status != "" {
		add("status", string(filter.Status))
	}

	query := `SELECT ` + selectColumns + ` FROM assessments`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY updated_at DESC, id`
	return query, args
}
