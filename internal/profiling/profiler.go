package profiling

import (
	"companyclean/domain/dataset"
	"companyclean/internal/errors"
)

// ColumnProfile pairs a column name with its summary
type ColumnProfile struct {
	Column  string  `json:"column"`
	Summary Summary `json:"summary"`
}

// DataProfiler profiles numeric columns of a dataset
type DataProfiler struct {
	analyzer *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{analyzer: NewDistributionAnalyzer()}
}

// ProfileColumns summarizes the named columns in the given order
func (dp *DataProfiler) ProfileColumns(ds *dataset.Dataset, columns []string) ([]ColumnProfile, error) {
	profiles := make([]ColumnProfile, 0, len(columns))
	for _, name := range columns {
		values, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		summary, err := dp.analyzer.Summarize(values)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to profile column %q", name)
		}
		profiles = append(profiles, ColumnProfile{Column: name, Summary: summary})
	}
	return profiles, nil
}
