package scoring

import (
	"fmt"
	"slices"
)

// Rule is the interface that all rubric rules implement.
type Rule interface {
	// Key returns the machine-readable rule identifier.
	Key() string
	// Name returns the human-readable rule name.
	Name() string
	// Axis returns the composite score the rule contributes to.
	Axis() Axis
	// Evaluate computes the rule's contribution for an input. It must not fail.
	Evaluate(in AssessmentInput) RuleResult
}

// Engine runs all configured rules against an input and produces a ScoreResult.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	rules            []Rule
	performanceBands []Band
	potentialBands   []Band
}

// NewEngine creates a scoring engine with the given rules and the default bands.
func NewEngine(rules ...Rule) *Engine {
	rb := DefaultRubric()
	return &Engine{
		rules:            slices.Clone(rules),
		performanceBands: rb.PerformanceBands,
		potentialBands:   rb.PotentialBands,
	}
}

// NewRubricEngine creates an engine whose rules and bands all come from rb.
func NewRubricEngine(rb Rubric) *Engine {
	rb = rb.Clone()
	return &Engine{
		rules:            RulesFor(rb),
		performanceBands: rb.PerformanceBands,
		potentialBands:   rb.PotentialBands,
	}
}

var defaultEngine = NewRubricEngine(DefaultRubric())

// Default returns the engine configured with the production rubric.
func Default() *Engine { return defaultEngine }

// ComputeScores scores an input with the production rubric.
func ComputeScores(in AssessmentInput) ScoreResult {
	return defaultEngine.Compute(in)
}

// Compute evaluates every rule and bands the two composite scores.
// Absent answers contribute zero; out-of-rubric answers fall outside every
// band and default to category 0. Compute never fails.
func (e *Engine) Compute(in AssessmentInput) ScoreResult {
	var result ScoreResult

	for _, r := range e.rules {
		rr := r.Evaluate(in)
		result.Breakdown = append(result.Breakdown, rr)
		switch rr.Axis {
		case AxisPerformance:
			result.PerformanceScore += rr.Contribution
		case AxisPotential:
			result.PotentialScore += rr.Contribution
		}
	}

	result.PerformanceCategory = Categorize(result.PerformanceScore, e.performanceBands)
	result.PotentialCategory = Categorize(result.PotentialScore, e.potentialBands)
	result.Warnings = e.warnings(result)

	return result
}

// warnings flags scores above the top band. They share category 0 with empty assessments.
func (e *Engine) warnings(result ScoreResult) []string {
	var out []string
	if top := TopBand(e.performanceBands); len(e.performanceBands) > 0 && result.PerformanceScore > top.Max {
		out = append(out, fmt.Sprintf("performance score %d exceeds the top band [%d,%d]; category defaults to 0",
			result.PerformanceScore, top.Min, top.Max))
	}
	if top := TopBand(e.potentialBands); len(e.potentialBands) > 0 && result.PotentialScore > top.Max {
		out = append(out, fmt.Sprintf("potential score %d exceeds the top band [%d,%d]; category defaults to 0",
			result.PotentialScore, top.Min, top.Max))
	}
	return out
}

// Rules returns the engine's rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}
