// Package scoring implements the ninebox performance/potential scoring engine.
// It maps questionnaire answers to two composite scores and their category bands.
package scoring

// AssessmentInput holds the raw questionnaire answers for one assessment.
// Every field is optional: nil means the question has not been answered yet.
type AssessmentInput struct {
	Q1Score   *int     `json:"q1_score,omitempty" yaml:"q1_score,omitempty"`       // professional qualities, 1-5
	Q2Score   *int     `json:"q2_score,omitempty" yaml:"q2_score,omitempty"`       // personal qualities, 1-4
	Q3_1      *bool    `json:"q3_1_answer,omitempty" yaml:"q3_1_answer,omitempty"` // required extra motivation
	Q3_2      *bool    `json:"q3_2_answer,omitempty" yaml:"q3_2_answer,omitempty"` // known miscommunication incidents
	Q3_3      *int     `json:"q3_3_answer,omitempty" yaml:"q3_3_answer,omitempty"` // growth desire, 1-4
	Q3_4      *bool    `json:"q3_4_answer,omitempty" yaml:"q3_4_answer,omitempty"` // considered a successor
	Q3_5      *int     `json:"q3_5_answer,omitempty" yaml:"q3_5_answer,omitempty"` // readiness horizon, 1-3
	Q3_6Score *float64 `json:"q3_6_score,omitempty" yaml:"q3_6_score,omitempty"`   // attrition risk, 0-10
	Q3_7Score *int     `json:"q3_7_score,omitempty" yaml:"q3_7_score,omitempty"`   // 1-10
	Q3_8Score *int     `json:"q3_8_score,omitempty" yaml:"q3_8_score,omitempty"`   // 1-10
}

// ScoreResult is the output of scoring one AssessmentInput.
// It is always derived from an input and never edited directly.
type ScoreResult struct {
	PerformanceScore    int `json:"performance_score" yaml:"performance_score"`
	PerformanceCategory int `json:"performance_category" yaml:"performance_category"`
	PotentialScore      int `json:"potential_score" yaml:"potential_score"`
	PotentialCategory   int `json:"potential_category" yaml:"potential_category"`

	Breakdown []RuleResult `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	Warnings  []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Axis names the composite score a rule contributes to.
type Axis string

const (
	AxisPerformance Axis = "performance"
	AxisPotential   Axis = "potential"
)

// RuleResult is the contribution of a single rubric rule.
type RuleResult struct {
	Key          string `json:"key" yaml:"key"`       // machine key: "q3_5_readiness"
	Name         string `json:"name" yaml:"name"`     // human name: "Readiness horizon"
	Axis         Axis   `json:"axis" yaml:"axis"`     // which composite score it feeds
	Answer       string `json:"answer" yaml:"answer"` // answer as seen by the rule, "" when absent
	Contribution int    `json:"contribution" yaml:"contribution"`
}

// Equal reports whether two results carry the same scores and categories.
// Breakdown and warnings are derived from the same input and are not compared.
func (r ScoreResult) Equal(other ScoreResult) bool {
	return r.PerformanceScore == other.PerformanceScore &&
		r.PerformanceCategory == other.PerformanceCategory &&
		r.PotentialScore == other.PotentialScore &&
		r.PotentialCategory == other.PotentialCategory
}

// Int returns a pointer to v. Convenient for building inputs.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Clone returns a copy of the input that shares no pointers with the original.
func (in AssessmentInput) Clone() AssessmentInput {
	return AssessmentInput{
		Q1Score:   cloneInt(in.Q1Score),
		Q2Score:   cloneInt(in.Q2Score),
		Q3_1:      cloneBool(in.Q3_1),
		Q3_2:      cloneBool(in.Q3_2),
		Q3_3:      cloneInt(in.Q3_3),
		Q3_4:      cloneBool(in.Q3_4),
		Q3_5:      cloneInt(in.Q3_5),
		Q3_6Score: cloneFloat(in.Q3_6Score),
		Q3_7Score: cloneInt(in.Q3_7Score),
		Q3_8Score: cloneInt(in.Q3_8Score),
	}
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	return Int(*p)
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	return Bool(*p)
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}
