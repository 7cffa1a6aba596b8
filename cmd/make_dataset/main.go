// Package main provides the CLI that turns raw company data into the
// cleaned dataset used for analysis.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"companyclean/adapters/excel"
	"companyclean/app"
	"companyclean/internal"
	"companyclean/internal/config"
	"companyclean/internal/errors"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}

// execute runs the command and returns the process exit code
func execute(args []string, stderr io.Writer) int {
	cmd := newRootCmd(stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
	}
	return errors.ExitCode(err)
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "make_dataset <input_filepath> <output_filepath>",
		Short: "Turn raw company data into a cleaned dataset",
		Long: `Runs data processing scripts to turn raw data (e.g. data/raw) into
cleaned data ready to be analyzed (e.g. data/processed).

Rows whose IT Spend, Employee Count, PC Count, Size or Revenue lie outside
[Q1 - 1.5*IQR, Q3 + 1.5*IQR] for that column are removed. All columns are
kept and the original row index is written as the first field.

Input and output may be .csv, .tsv or .xlsx files.

Exit codes:
  0 - Success
  1 - Internal error (e.g. output could not be written)
  2 - Usage error
  3 - Invalid input (missing, empty or unparsable file)
  4 - A monitored column is missing
  5 - A monitored column holds a non-numeric or missing value
  6 - Invalid configuration`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, args[0], args[1], stderr)
		},
	}
}

// loadConfig applies the nearest .env and builds the run configuration
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine working directory")
	}
	envFile, err := config.FindDotEnv(wd)
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	return config.Load(envFile)
}

func run(ctx context.Context, cfg *config.Config, input, output string, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := internal.NewLogger(cfg.Log.Name, cfg.Log.Level, stderr)
	if cfg.EnvFile != "" {
		logger.Debug("loaded environment from %s", cfg.EnvFile)
	}
	logger.Debug("project directory: %s", cfg.ProjectDir)

	svc := app.NewDatasetCleaningService(
		excel.NewDataReader(logger.Named("reader")),
		excel.NewDataWriter(logger.Named("writer")),
		logger,
	)
	_, err := svc.Run(ctx, input, output)
	return err
}
