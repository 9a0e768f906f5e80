package scoring

// DefaultRules returns the standard rubric rules in display order.
func DefaultRules() []Rule {
	return RulesFor(DefaultRubric())
}

// RulesFor builds the rule set for a rubric. The rules hold a copy of rb's
// tables.
func RulesFor(rb Rubric) []Rule {
	rb = rb.Clone()
	return []Rule{
		&RawRule{
			RuleKey: "q1_professional", RuleName: "Professional qualities",
			RuleAxis: AxisPerformance, Weight: 1,
			Answer: func(in AssessmentInput) *int { return in.Q1Score },
		},
		&RawRule{
			RuleKey: "q2_personal", RuleName: "Personal qualities",
			RuleAxis: AxisPerformance, Weight: 1,
			Answer: func(in AssessmentInput) *int { return in.Q2Score },
		},
		&YesRule{
			RuleKey: "q3_1_extra_motivation", RuleName: "Required extra motivation",
			Points: rb.YesPoints,
			Answer: func(in AssessmentInput) *bool { return in.Q3_1 },
		},
		&YesRule{
			RuleKey: "q3_2_miscommunication", RuleName: "Known miscommunication incidents",
			Points: rb.YesPoints,
			Answer: func(in AssessmentInput) *bool { return in.Q3_2 },
		},
		&ChoiceRule{
			RuleKey: "q3_3_growth_desire", RuleName: "Growth desire",
			Scale: rb.GrowthScale, Weight: rb.GrowthWeight,
			Answer: func(in AssessmentInput) *int { return in.Q3_3 },
		},
		&YesRule{
			RuleKey: "q3_4_successor", RuleName: "Considered a successor",
			Points: rb.YesPoints,
			Answer: func(in AssessmentInput) *bool { return in.Q3_4 },
		},
		&ChoiceRule{
			RuleKey: "q3_5_readiness", RuleName: "Readiness horizon",
			Scale: rb.ReadinessScale, Weight: rb.ReadinessWeight,
			Answer: func(in AssessmentInput) *int { return in.Q3_5 },
		},
		&RiskRule{
			Bands:  rb.RiskBands,
			Weight: rb.RiskWeight,
		},
		&RawRule{
			RuleKey: "q3_7_rating", RuleName: "Potential rating (q3.7)",
			RuleAxis: AxisPotential, Weight: 1,
			Answer: func(in AssessmentInput) *int { return in.Q3_7Score },
		},
		&RawRule{
			RuleKey: "q3_8_rating", RuleName: "Potential rating (q3.8)",
			RuleAxis: AxisPotential, Weight: 1,
			Answer: func(in AssessmentInput) *int { return in.Q3_8Score },
		},
	}
}
