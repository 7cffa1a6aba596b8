package app

import (
	"context"
	"time"

	"companyclean/domain/dataset"
	"companyclean/internal"
	"companyclean/internal/errors"
	"companyclean/internal/outlier"
	"companyclean/internal/profiling"
	"companyclean/ports"

	"github.com/google/uuid"
)

// DatasetCleaningService turns a raw company dataset into a cleaned one
type DatasetCleaningService struct {
	reader   ports.TableReader
	writer   ports.TableWriter
	filter   *outlier.Filter
	profiler *profiling.DataProfiler
	logger   *internal.Logger
}

// RunResult describes one completed cleaning run
type RunResult struct {
	RunID     string
	Input     string
	Output    string
	Profiles  []profiling.ColumnProfile
	Report    *outlier.Report
	RuntimeMs int64
}

// NewDatasetCleaningService creates a cleaning service
func NewDatasetCleaningService(reader ports.TableReader, writer ports.TableWriter, logger *internal.Logger) *DatasetCleaningService {
	return &DatasetCleaningService{
		reader:   reader,
		writer:   writer,
		filter:   outlier.NewFilter(),
		profiler: profiling.NewDataProfiler(),
		logger:   logger,
	}
}

// Run loads input, removes outlier records and writes the result to
// output. Nothing is written when any step fails.
func (s *DatasetCleaningService) Run(ctx context.Context, input, output string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{RunID: uuid.NewString(), Input: input, Output: output}

	s.logger.Info("making final data set from raw data")
	s.logger.Debug("run %s: %s -> %s", result.RunID, input, output)

	// Step 1: Load raw table
	table, err := s.reader.ReadTable(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load raw data")
	}

	// Step 2: Type columns against the monitored set
	ds, err := dataset.New(table, s.filter.Columns())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load raw data")
	}
	s.logger.Debug("loaded %d records with %d columns", ds.Len(), len(ds.Schema().Columns))

	// Step 3: Profile monitored columns
	profiles, err := s.profiler.ProfileColumns(ds, s.filter.Columns())
	if err != nil {
		return nil, errors.Wrap(err, "failed to profile raw data")
	}
	result.Profiles = profiles
	for _, p := range profiles {
		s.logger.Debug("%s: n=%d min=%g max=%g mean=%g median=%g sd=%g skew=%.3f",
			p.Column, p.Summary.Count, p.Summary.Min, p.Summary.Max,
			p.Summary.Mean, p.Summary.Median, p.Summary.StdDev, p.Summary.Skewness)
	}

	// Step 4: Remove outliers
	cleaned, report, err := s.filter.Filter(ds)
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove outliers")
	}
	result.Report = report
	for _, c := range report.Columns {
		s.logger.Debug("%s: Q1=%g Q3=%g IQR=%g fence=[%g, %g] flagged=%d",
			c.Column, c.Fence.Q1, c.Fence.Q3, c.Fence.IQR, c.Fence.Lower, c.Fence.Upper, c.Flagged)
	}
	s.logger.Debug("retained %d of %d records (%d removed)", report.Retained, report.Input, report.Removed)

	// Step 5: Store clean data
	if err := s.writer.WriteTable(ctx, output, cleaned); err != nil {
		return nil, errors.Wrap(err, "failed to store clean data")
	}

	result.RuntimeMs = time.Since(start).Milliseconds()
	s.logger.Debug("run %s finished in %d ms", result.RunID, result.RuntimeMs)
	return result, nil
}
