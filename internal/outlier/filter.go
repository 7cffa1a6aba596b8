// Package outlier removes records that fall outside the Tukey fences of
// any monitored column.
package outlier

import (
	"companyclean/domain/dataset"
	"companyclean/internal/errors"
	"companyclean/internal/profiling"
)

// ColumnReport describes the fence applied to one monitored column
type ColumnReport struct {
	Column  string          `json:"column"`
	Fence   profiling.Fence `json:"fence"`
	Flagged int             `json:"flagged"`
}

// Report summarizes one Filter call
type Report struct {
	Columns  []ColumnReport `json:"columns"`
	Input    int            `json:"input"`
	Retained int            `json:"retained"`
	Removed  int            `json:"removed"`
}

// ColumnMask is the outlier flag of every record for one column
type ColumnMask struct {
	Column string
	Fence  profiling.Fence
	Flags  []bool
}

// Filter drops outlier records over a fixed column set
type Filter struct {
	columns []string
}

// NewFilter returns a filter over the monitored company metrics
func NewFilter() *Filter {
	return &Filter{columns: dataset.MonitoredColumns()}
}

// Columns returns the monitored columns
func (f *Filter) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Masks computes each monitored column's fence over the full dataset and
// flags the records outside it.
func (f *Filter) Masks(ds *dataset.Dataset) ([]ColumnMask, error) {
	var missing []string
	for _, name := range f.columns {
		if _, ok := ds.Schema().Position(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.MissingColumn(missing...)
	}

	masks := make([]ColumnMask, 0, len(f.columns))
	for _, name := range f.columns {
		values, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		fence, err := profiling.ComputeFence(values)
		if err != nil {
			return nil, errors.InvalidInputf(err, "cannot compute fence for column %q", name)
		}
		masks = append(masks, ColumnMask{Column: name, Fence: fence, Flags: fence.Mask(values)})
	}
	return masks, nil
}

// Combine ORs the column masks into one flag per record
func Combine(masks []ColumnMask, n int) []bool {
	combined := make([]bool, n)
	for _, m := range masks {
		for i, flagged := range m.Flags {
			if flagged {
				combined[i] = true
			}
		}
	}
	return combined
}

// Filter returns a new dataset without the records flagged by any
// monitored column, plus a report of the fences used. ds is not modified.
func (f *Filter) Filter(ds *dataset.Dataset) (*dataset.Dataset, *Report, error) {
	masks, err := f.Masks(ds)
	if err != nil {
		return nil, nil, err
	}

	combined := Combine(masks, ds.Len())
	keep := make([]bool, len(combined))
	for i, outlier := range combined {
		keep[i] = !outlier
	}

	cleaned, err := ds.Subset(keep)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{
		Input:    ds.Len(),
		Retained: cleaned.Len(),
		Removed:  ds.Len() - cleaned.Len(),
	}
	for _, m := range masks {
		flagged := 0
		for _, v := range m.Flags {
			if v {
				flagged++
			}
		}
		report.Columns = append(report.Columns, ColumnReport{Column: m.Column, Fence: m.Fence, Flagged: flagged})
	}
	return cleaned, report, nil
}
