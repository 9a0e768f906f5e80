package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ninebox/ninebox/internal/records"
	"github.com/ninebox/ninebox/internal/review"
	"github.com/ninebox/ninebox/pkg/scoring"
	"github.com/ninebox/ninebox/pkg/surface"
)

// batchEntry is one questionnaire in a batch file.
type batchEntry struct {
	ID    string                  `json:"id" yaml:"id"`
	Input scoring.AssessmentInput `json:"input" yaml:"input"`
}

func newBatchCmd() *cobra.Command {
	var (
		inputPath   string
		outputFmt   string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score a file of questionnaires",
		Long: `Scores every entry of a JSON or YAML list of {id, input} objects.
Results are printed in file order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []batchEntry
			if err := decodeFile(inputPath, &entries); err != nil {
				return err
			}

			renderer, err := surface.For(outputFmt)
			if err != nil {
				return err
			}

			cfg := loadConfig()
			log := newLogger(cfg)
			defer func() { _ = log.Sync() }()

			svc := review.NewService(records.NewMemoryRepository(), nil,
				review.WithLogger(log),
				review.WithConcurrency(firstNonZero(concurrency, cfg.Batch.Concurrency)),
			)

			inputs := make([]scoring.AssessmentInput, len(entries))
			for i, e := range entries {
				inputs[i] = e.Input
			}
			results, err := svc.ScoreBatch(cmd.Context(), inputs)
			if err != nil {
				return fmt.Errorf("scoring batch: %w", err)
			}

			items := make([]surface.Item, len(entries))
			for i, e := range entries {
				id := e.ID
				if id == "" {
					id = fmt.Sprintf("#%d", i+1)
				}
				items[i] = surface.Item{ID: id, Result: &results[i]}
			}
			return renderer.RenderBatch(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Path to a JSON or YAML batch file")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json or yaml")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel scoring workers (default from config)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
