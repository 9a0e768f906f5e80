// Package assessment sits between raw form values and the scoring engine.
// It parses string-typed answers into a strict scoring.AssessmentInput,
// validates final submissions, and defines the persisted assessment record.
package assessment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// ErrInvalidForm is wrapped by FormError.
var ErrInvalidForm = errors.New("invalid form values")

// Form field names, identical to the JSON names of scoring.AssessmentInput.
const (
	FieldQ1   = "q1_score"
	FieldQ2   = "q2_score"
	FieldQ3_1 = "q3_1_answer"
	FieldQ3_2 = "q3_2_answer"
	FieldQ3_3 = "q3_3_answer"
	FieldQ3_4 = "q3_4_answer"
	FieldQ3_5 = "q3_5_answer"
	FieldQ3_6 = "q3_6_score"
	FieldQ3_7 = "q3_7_score"
	FieldQ3_8 = "q3_8_score"
)

// Fields lists every form field in questionnaire order.
var Fields = []string{FieldQ1, FieldQ2, FieldQ3_1, FieldQ3_2, FieldQ3_3, FieldQ3_4, FieldQ3_5, FieldQ3_6, FieldQ3_7, FieldQ3_8}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormError collects every field that could not be parsed.
type FormError struct {
	Fields []FieldError
}

func (e *FormError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(parts, "; "))
}

func (e *FormError) Unwrap() error { return ErrInvalidForm }

// ParseForm converts string form values into an AssessmentInput.
// Missing keys and blank values leave the answer absent; unknown keys are ignored.
// Values that do not parse are reported together in a *FormError.
// Parsing checks types only; use Validate for answer domains.
func ParseForm(values map[string]string) (scoring.AssessmentInput, error) {
	var (
		in   scoring.AssessmentInput
		errs []FieldError
	)

	ints := map[string]**int{
		FieldQ1:   &in.Q1Score,
		FieldQ2:   &in.Q2Score,
		FieldQ3_3: &in.Q3_3,
		FieldQ3_5: &in.Q3_5,
		FieldQ3_7: &in.Q3_7Score,
		FieldQ3_8: &in.Q3_8Score,
	}
	bools := map[string]**bool{
		FieldQ3_1: &in.Q3_1,
		FieldQ3_2: &in.Q3_2,
		FieldQ3_4: &in.Q3_4,
	}

	for field, dst := range ints {
		raw, ok := lookup(values, field)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("%q is not an integer", raw)})
			continue
		}
		*dst = &v
	}

	for field, dst := range bools {
		raw, ok := lookup(values, field)
		if !ok {
			continue
		}
		v, err := parseBool(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
			continue
		}
		*dst = &v
	}

	if raw, ok := lookup(values, FieldQ3_6); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(v) {
			errs = append(errs, FieldError{Field: FieldQ3_6, Message: fmt.Sprintf("%q is not a number", raw)})
		} else {
			in.Q3_6Score = &v
		}
	}

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
		return scoring.AssessmentInput{}, &FormError{Fields: errs}
	}
	return in, nil
}

// finite rejects NaN and the infinities, which ParseFloat accepts but no
// encoder downstream can represent.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func lookup(values map[string]string, field string) (string, bool) {
	raw, ok := values[field]
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a yes/no answer", raw)
}

// ToForm renders an input back into form values. Absent answers are omitted.
func ToForm(in scoring.AssessmentInput) map[string]string {
	out := make(map[string]string)
	putInt := func(field string, v *int) {
		if v != nil {
			out[field] = strconv.Itoa(*v)
		}
	}
	putBool := func(field string, v *bool) {
		if v != nil {
			out[field] = strconv.FormatBool(*v)
		}
	}

	putInt(FieldQ1, in.Q1Score)
	putInt(FieldQ2, in.Q2Score)
	putBool(FieldQ3_1, in.Q3_1)
	putBool(FieldQ3_2, in.Q3_2)
	putInt(FieldQ3_3, in.Q3_3)
	putBool(FieldQ3_4, in.Q3_4)
	putInt(FieldQ3_5, in.Q3_5)
	if in.Q3_6Score != nil {
		out[FieldQ3_6] = strconv.FormatFloat(*in.Q3_6Score, 'f', -1, 64)
	}
	putInt(FieldQ3_7, in.Q3_7Score)
	putInt(FieldQ3_8, in.Q3_8Score)
	return out
}
