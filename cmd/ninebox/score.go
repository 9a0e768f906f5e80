package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
	"github.com/ninebox/ninebox/pkg/surface"
)

// answerFlags maps CLI flag names to form field names.
var answerFlags = []struct {
	flag, field, usage string
}{
	{"q1", assessment.FieldQ1, "Professional qualities, 1-5"},
	{"q2", assessment.FieldQ2, "Personal qualities, 1-4"},
	{"q3-1", assessment.FieldQ3_1, "Required extra motivation, yes/no"},
	{"q3-2", assessment.FieldQ3_2, "Known miscommunication incidents, yes/no"},
	{"q3-3", assessment.FieldQ3_3, "Growth desire, 1-4"},
	{"q3-4", assessment.FieldQ3_4, "Considered a successor, yes/no"},
	{"q3-5", assessment.FieldQ3_5, "Readiness horizon, 1-3"},
	{"q3-6", assessment.FieldQ3_6, "Attrition risk, 0-10"},
	{"q3-7", assessment.FieldQ3_7, "Potential rating, 1-10"},
	{"q3-8", assessment.FieldQ3_8, "Potential rating, 1-10"},
}

func newScoreCmd() *cobra.Command {
	var (
		inputPath string
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one questionnaire",
		Long: `Scores a questionnaire given as flags, as a JSON/YAML file, or both.
Flags override values from the file. Unanswered questions contribute nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{}
			if inputPath != "" {
				var in scoring.AssessmentInput
				if err := decodeFile(inputPath, &in); err != nil {
					return err
				}
				values = assessment.ToForm(in)
			}
			for _, af := range answerFlags {
				if cmd.Flags().Changed(af.flag) {
					v, _ := cmd.Flags().GetString(af.flag)
					values[af.field] = v
				}
			}

			in, err := assessment.ParseForm(values)
			if err != nil {
				return err
			}

			renderer, err := surface.For(outputFmt)
			if err != nil {
				return err
			}
			result := scoring.ComputeScores(in)
			if err := renderer.Render(cmd.OutOrStdout(), &result); err != nil {
				return fmt.Errorf("rendering result: %w", err)
			}
			return nil
		},
	}

	for _, af := range answerFlags {
		cmd.Flags().String(af.flag, "", af.usage)
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "Path to a JSON or YAML answers file")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or yaml")

	return cmd
}
