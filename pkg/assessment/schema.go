package assessment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ninebox/ninebox/pkg/scoring"
)

// ErrInvalidAnswers is wrapped by ValidationError.
var ErrInvalidAnswers = errors.New("answers outside the questionnaire domain")

// answerSchema describes the documented domain of every answer.
// No answer is required: a partial submission is still a legal assessment.
const answerSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "q1_score":    {"type": "integer", "minimum": 1, "maximum": 5},
    "q2_score":    {"type": "integer", "minimum": 1, "maximum": 4},
    "q3_1_answer": {"type": "boolean"},
    "q3_2_answer": {"type": "boolean"},
    "q3_3_answer": {"type": "integer", "enum": [1, 2, 3, 4]},
    "q3_4_answer": {"type": "boolean"},
    "q3_5_answer": {"type": "integer", "enum": [1, 2, 3]},
    "q3_6_score":  {"type": "number", "minimum": 0, "maximum": 10},
    "q3_7_score":  {"type": "integer", "minimum": 1, "maximum": 10},
    "q3_8_score":  {"type": "integer", "minimum": 1, "maximum": 10}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(answerSchema)

// ValidationError lists answers rejected by Validate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidAnswers, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidAnswers }

// Validate checks that every present answer lies in its documented domain.
// The scoring engine never calls this; it is applied when an assessment is submitted.
func Validate(in scoring.AssessmentInput) error {
	if in.Q3_6Score != nil && !finite(*in.Q3_6Score) {
		return &ValidationError{Fields: []FieldError{{Field: FieldQ3_6, Message: "must be a finite number"}}}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(in))
	if err != nil {
		return fmt.Errorf("validate answers: %w", err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ValidationError{Fields: fields}
}
