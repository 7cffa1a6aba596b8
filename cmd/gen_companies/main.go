package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"companyclean/internal"
	"companyclean/internal/testkit"
)

func main() {
	out := flag.String("out", "companies_raw.csv", "output file path (.csv, .tsv or .xlsx)")
	rows := flag.Int("rows", 500, "number of companies")
	outlierRate := flag.Float64("outlier-rate", 0.03, "share of rows with one injected extreme metric")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	flag.Parse()

	if *rows <= 0 {
		fmt.Fprintln(os.Stderr, "rows must be > 0")
		os.Exit(2)
	}
	if *outlierRate < 0 || *outlierRate > 1 {
		fmt.Fprintln(os.Stderr, "outlier-rate must be within [0, 1]")
		os.Exit(2)
	}

	cfg := testkit.DefaultCompanyConfig()
	cfg.CompanyCount = *rows
	cfg.OutlierRate = *outlierRate
	cfg.Seed = *seed

	logger := internal.NewLogger("gen_companies", internal.LogLevelInfo, os.Stderr)
	injected, err := testkit.WriteRawCompanies(context.Background(), *out, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(1)
	}

	logger.Info("wrote %d companies (%d with injected outliers) to %s", *rows, len(injected), *out)
}
