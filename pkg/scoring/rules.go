package scoring

import "strconv"

// YesRule adds fixed points when a yes/no question is answered true.
type YesRule struct {
	RuleKey  string
	RuleName string
	Points   int
	Answer   func(in AssessmentInput) *bool
}

func (r *YesRule) Key() string  { return r.RuleKey }
func (r *YesRule) Name() string { return r.RuleName }
func (r *YesRule) Axis() Axis   { return AxisPotential }

func (r *YesRule) Evaluate(in AssessmentInput) RuleResult {
	res := RuleResult{Key: r.RuleKey, Name: r.RuleName, Axis: AxisPotential}
	v := r.Answer(in)
	if v == nil {
		return res
	}
	res.Answer = strconv.FormatBool(*v)
	if *v {
		res.Contribution = r.Points
	}
	return res
}

// ChoiceRule maps an enumerated answer onto a small scale, then applies a weight.
// Answers missing from the scale contribute nothing.
type ChoiceRule struct {
	RuleKey  string
	RuleName string
	Scale    map[int]int
	Weight   int
	Answer   func(in AssessmentInput) *int
}

func (r *ChoiceRule) Key() string  { return r.RuleKey }
func (r *ChoiceRule) Name() string { return r.RuleName }
func (r *ChoiceRule) Axis() Axis   { return AxisPotential }

func (r *ChoiceRule) Evaluate(in AssessmentInput) RuleResult {
	res := RuleResult{Key: r.RuleKey, Name: r.RuleName, Axis: AxisPotential}
	v := r.Answer(in)
	if v == nil {
		return res
	}
	res.Answer = strconv.Itoa(*v)
	res.Contribution = r.Scale[*v] * r.Weight
	return res
}

// RiskRule inverts the attrition-risk rating into points through closed bands,
// then applies a weight. Ratings between or outside the bands contribute nothing.
type RiskRule struct {
	Bands  []RiskBand
	Weight int
}

func (r *RiskRule) Key() string  { return "q3_6_attrition_risk" }
func (r *RiskRule) Name() string { return "Attrition risk" }
func (r *RiskRule) Axis() Axis   { return AxisPotential }

func (r *RiskRule) Evaluate(in AssessmentInput) RuleResult {
	res := RuleResult{Key: r.Key(), Name: r.Name(), Axis: AxisPotential}
	if in.Q3_6Score == nil {
		return res
	}
	v := *in.Q3_6Score
	res.Answer = strconv.FormatFloat(v, 'f', -1, 64)
	for _, b := range r.Bands {
		if v >= b.Min && v <= b.Max {
			res.Contribution = b.Points * r.Weight
			break
		}
	}
	return res
}

// RawRule adds an integer answer as-is, scaled by a weight.
type RawRule struct {
	RuleKey  string
	RuleName string
	RuleAxis Axis
	Weight   int
	Answer   func(in AssessmentInput) *int
}

func (r *RawRule) Key() string  { return r.RuleKey }
func (r *RawRule) Name() string { return r.RuleName }
func (r *RawRule) Axis() Axis   { return r.RuleAxis }

func (r *RawRule) Evaluate(in AssessmentInput) RuleResult {
	res := RuleResult{Key: r.RuleKey, Name: r.RuleName, Axis: r.RuleAxis}
	v := r.Answer(in)
	if v == nil {
		return res
	}
	res.Answer = strconv.Itoa(*v)
	res.Contribution = *v * r.Weight
	return res
}
