package assessment

import (
	"time"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// Status is the lifecycle state of an assessment record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// Record is the persisted pairing of a reviewer's answers with the scores
// computed from them, scoped to one employee, one manager and one review period.
type Record struct {
	ID          string                  `json:"id"`
	EmployeeID  string                  `json:"employee_id"`
	ManagerID   string                  `json:"manager_id"`
	Period      string                  `json:"period"`
	Status      Status                  `json:"status"`
	Input       scoring.AssessmentInput `json:"input"`
	Result      scoring.ScoreResult     `json:"result"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	SubmittedAt *time.Time              `json:"submitted_at,omitempty"`
}

// Key identifies the record's scope independently of its ID.
type Key struct {
	EmployeeID string
	ManagerID  string
	Period     string
}

// Key returns the record's scope.
func (r *Record) Key() Key {
	return Key{EmployeeID: r.EmployeeID, ManagerID: r.ManagerID, Period: r.Period}
}

// NewRecord builds a draft record with scores computed by engine.
func NewRecord(key Key, in scoring.AssessmentInput, engine *scoring.Engine) *Record {
	return &Record{
		EmployeeID: key.EmployeeID,
		ManagerID:  key.ManagerID,
		Period:     key.Period,
		Status:     StatusDraft,
		Input:      in,
		Result:     engine.Compute(in),
	}
}

// SetInput replaces the answers and recomputes the result.
func (r *Record) SetInput(in scoring.AssessmentInput, engine *scoring.Engine) {
	r.Input = in
	r.Result = engine.Compute(in)
}

// Rescore recomputes the result from the stored answers and reports whether
// the stored scores differed from the recomputed ones.
func (r *Record) Rescore(engine *scoring.Engine) bool {
	fresh := engine.Compute(r.Input)
	drifted := !fresh.Equal(r.Result)
	r.Result = fresh
	return drifted
}

// Submitted reports whether the record has been finalized.
func (r *Record) Submitted() bool {
	return r.Status == StatusSubmitted
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Input = r.Input.Clone()
	if r.Result.Breakdown != nil {
		c.Result.Breakdown = append([]scoring.RuleResult(nil), r.Result.Breakdown...)
	}
	if r.Result.Warnings != nil {
		c.Result.Warnings = append([]string(nil), r.Result.Warnings...)
	}
	if r.SubmittedAt != nil {
		t := *r.SubmittedAt
		c.SubmittedAt = &t
	}
	return &c
}
