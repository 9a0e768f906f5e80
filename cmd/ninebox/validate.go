package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ninebox/ninebox/pkg/assessment"
	"github.com/ninebox/ninebox/pkg/scoring"
)

func newValidateCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a questionnaire against the submission rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in scoring.AssessmentInput
			if err := decodeFile(inputPath, &in); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err := assessment.Validate(in)
			var verr *assessment.ValidationError
			switch {
			case err == nil:
				fmt.Fprintln(out, "ok")
				return nil
			case errors.As(err, &verr):
				for _, f := range verr.Fields {
					fmt.Fprintf(out, "%s: %s\n", f.Field, f.Message)
				}
				return fmt.Errorf("%d invalid answer(s)", len(verr.Fields))
			default:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Path to a JSON or YAML answers file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
