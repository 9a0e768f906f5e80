// Package main provides the ninebox CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninebox/ninebox/internal/logger"
	"github.com/ninebox/ninebox/pkg/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ninebox",
		Short: "Performance and potential scoring for review questionnaires",
		Long: `ninebox scores performance-review questionnaires into a performance
category and a potential category, the two axes of the nine-box grid.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newBatchCmd(),
		newValidateCmd(),
	)
	return rootCmd
}

// loadConfig finds .ninebox/config.yaml from the working directory upward.
// Problems are reported and defaults used, so scoring never fails on config.
func loadConfig() *config.Config {
	path := ""
	if wd, err := os.Getwd(); err == nil {
		path = config.FindConfigFile(wd)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewStructured(cfg.Logging.Level, "console")
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
