package assessment_test

import (
	"errors"
	"testing"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

func TestParseForm(t *testing.T) {
	in, err := assessment.ParseForm(map[string]string{
		"q1_score":    "4",
		"q2_score":    " 3 ",
		"q3_1_answer": "yes",
		"q3_2_answer": "false",
		"q3_3_answer": "2",
		"q3_4_answer": "1",
		"q3_5_answer": "",
		"q3_6_score":  "6.5",
		"q3_7_score":  "8",
		"comment":     "ignored",
	})
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	if in.Q1Score == nil || *in.Q1Score != 4 {
		t.Errorf("Q1Score = %v, want 4", in.Q1Score)
	}
	if in.Q2Score == nil || *in.Q2Score != 3 {
		t.Errorf("Q2Score = %v, want 3", in.Q2Score)
	}
	if in.Q3_1 == nil || !*in.Q3_1 {
		t.Errorf("Q3_1 = %v, want true", in.Q3_1)
	}
	if in.Q3_2 == nil || *in.Q3_2 {
		t.Errorf("Q3_2 = %v, want false", in.Q3_2)
	}
	if in.Q3_4 == nil || !*in.Q3_4 {
		t.Errorf("Q3_4 = %v, want true", in.Q3_4)
	}
	if in.Q3_5 != nil {
		t.Errorf("Q3_5 = %v, want absent for blank value", *in.Q3_5)
	}
	if in.Q3_6Score == nil || *in.Q3_6Score != 6.5 {
		t.Errorf("Q3_6Score = %v, want 6.5", in.Q3_6Score)
	}
	if in.Q3_8Score != nil {
		t.Errorf("Q3_8Score = %v, want absent for missing key", *in.Q3_8Score)
	}
}

func TestParseFormEmpty(t *testing.T) {
	in, err := assessment.ParseForm(nil)
	if err != nil {
		t.Fatalf("ParseForm(nil): %v", err)
	}
	if in != (scoring.AssessmentInput{}) {
		t.Errorf("expected empty input, got %+v", in)
	}
}

func TestParseFormErrors(t *testing.T) {
	_, err := assessment.ParseForm(map[string]string{
		"q1_score":    "four",
		"q3_1_answer": "maybe",
		"q3_6_score":  "low",
		"q2_score":    "2",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, assessment.ErrInvalidForm) {
		t.Errorf("error %v does not wrap ErrInvalidForm", err)
	}

	var formErr *assessment.FormError
	if !errors.As(err, &formErr) {
		t.Fatalf("expected *FormError, got %T", err)
	}
	want := []string{"q1_score", "q3_1_answer", "q3_6_score"}
	if len(formErr.Fields) != len(want) {
		t.Fatalf("got %d field errors, want %d: %v", len(formErr.Fields), len(want), formErr.Fields)
	}
	for i, f := range formErr.Fields {
		if f.Field != want[i] {
			t.Errorf("field error %d = %q, want %q", i, f.Field, want[i])
		}
	}
}

func TestParseFormRejectsNonFiniteRisk(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity"} {
		t.Run(raw, func(t *testing.T) {
			_, err := assessment.ParseForm(map[string]string{"q3_6_score": raw})
			var formErr *assessment.FormError
			if !errors.As(err, &formErr) {
				t.Fatalf("ParseForm(%q) error = %v, want *FormError", raw, err)
			}
			if len(formErr.Fields) != 1 || formErr.Fields[0].Field != "q3_6_score" {
				t.Errorf("field errors = %v, want one for q3_6_score", formErr.Fields)
			}
		})
	}
}

func TestToFormRoundTrip(t *testing.T) {
	in := scoring.AssessmentInput{
		Q1Score:   scoring.Int(5),
		Q3_2:      scoring.Bool(true),
		Q3_6Score: scoring.Float(2),
		Q3_8Score: scoring.Int(1),
	}
	values := assessment.ToForm(in)
	if len(values) != 4 {
		t.Errorf("ToForm produced %d values, want 4: %v", len(values), values)
	}

	back, err := assessment.ParseForm(values)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if !scoring.ComputeScores(back).Equal(scoring.ComputeScores(in)) {
		t.Errorf("round trip changed scores: %+v vs %+v", back, in)
	}
}
