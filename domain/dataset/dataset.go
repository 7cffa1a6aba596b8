package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"companyclean/internal/errors"
)

// Schema is the ordered column set shared by every record
type Schema struct {
	Columns []Column
	byName  map[string]int
}

// NewSchema builds a schema, rejecting empty and duplicate names
func NewSchema(columns []Column) (Schema, error) {
	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		if c.Name == "" {
			return Schema{}, errors.InvalidInput(fmt.Sprintf("column %d has an empty header", i+1))
		}
		if _, dup := byName[c.Name]; dup {
			return Schema{}, errors.InvalidInput(fmt.Sprintf("duplicate column header %q", c.Name))
		}
		byName[c.Name] = i
	}
	return Schema{Columns: columns, byName: byName}, nil
}

// Position returns the column offset of name
func (s Schema) Position(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Names returns the column names in order
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Headers returns the header text of each column as it was read
func (s Schema) Headers() []string {
	headers := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		headers[i] = c.Header
	}
	return headers
}

// Dataset is an immutable, typed table. Numeric columns are parsed once
// at construction.
type Dataset struct {
	schema  Schema
	records []Record
	numeric map[string][]float64
}

// New validates a raw table and types its columns. Every name in required
// must be present and fully numeric. Other columns are numeric when every
// cell parses, text otherwise.
func New(table *Table, required []string) (*Dataset, error) {
	if table == nil || len(table.Headers) == 0 {
		return nil, errors.InvalidInput("table has no header row")
	}
	if len(table.Rows) == 0 {
		return nil, errors.InvalidInput("table has no data rows")
	}
	if table.Index != nil && len(table.Index) != len(table.Rows) {
		return nil, errors.InvalidInput(fmt.Sprintf("index has %d entries for %d rows", len(table.Index), len(table.Rows)))
	}

	columns, err := columnsFromHeaders(table.Headers, required)
	if err != nil {
		return nil, err
	}
	schema, err := NewSchema(columns)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range required {
		if _, ok := schema.Position(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.MissingColumn(missing...)
	}

	records := make([]Record, len(table.Rows))
	for r, row := range table.Rows {
		if len(row) != len(columns) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d fields, header has %d", r+1, len(row), len(columns)))
		}
		idx := r
		if table.Index != nil {
			idx = table.Index[r]
		}
		records[r] = Record{Index: idx, Cells: row}
	}

	ds := &Dataset{schema: schema, records: records, numeric: make(map[string][]float64)}

	for _, name := range required {
		pos, _ := schema.Position(name)
		values, badRow, ok := parseColumn(records, pos)
		if !ok {
			return nil, errors.NonNumericValue(name, records[badRow].Index, records[badRow].Cells[pos])
		}
		ds.numeric[name] = values
		ds.schema.Columns[pos].Kind = KindNumeric
	}

	for pos, c := range ds.schema.Columns {
		if c.Kind == KindNumeric {
			continue
		}
		if values, _, ok := parseColumn(records, pos); ok {
			ds.numeric[c.Name] = values
			ds.schema.Columns[pos].Kind = KindNumeric
		}
	}

	return ds, nil
}

// columnsFromHeaders names every column uniquely the way pandas does:
// an empty header becomes "Unnamed: N" (N is the position) and repeats of
// a header get ".1", ".2" suffixes. Headers are matched exactly, without
// trimming. A repeated required header is ambiguous and rejected.
func columnsFromHeaders(headers, required []string) ([]Column, error) {
	isRequired := make(map[string]bool, len(required))
	for _, name := range required {
		isRequired[name] = true
	}

	taken := make(map[string]bool, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if taken[h] && isRequired[h] {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate column header %q at column %d", h, i+1))
		}
		taken[h] = true
	}

	columns := make([]Column, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		name := h
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			for {
				n++
				candidate := fmt.Sprintf("%s.%d", name, n)
				if !taken[candidate] {
					seen[name] = n
					name = candidate
					break
				}
			}
		} else {
			seen[name] = 0
		}
		taken[name] = true
		columns[i] = Column{Name: name, Header: h, Kind: KindText}
	}
	return columns, nil
}

// parseColumn returns the column as floats, or the offending row offset
func parseColumn(records []Record, pos int) ([]float64, int, bool) {
	values := make([]float64, len(records))
	for r, rec := range records {
		v, ok := ParseNumber(rec.Cells[pos])
		if !ok {
			return nil, r, false
		}
		values[r] = v
	}
	return values, 0, true
}

// ParseNumber parses a finite number. Blank cells and NaN/Inf spellings
// are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Schema returns the dataset schema
func (d *Dataset) Schema() Schema {
	return d.schema
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the records in order. Callers must not modify them.
func (d *Dataset) Records() []Record {
	return d.records
}

// Column returns a copy of a numeric column's values
func (d *Dataset) Column(name string) ([]float64, error) {
	if _, ok := d.schema.Position(name); !ok {
		return nil, errors.MissingColumn(name)
	}
	values, ok := d.numeric[name]
	if !ok {
		return nil, errors.New(errors.CodeNonNumericValue, fmt.Sprintf("column %q is not numeric", name))
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// Subset returns a new dataset holding the records where keep is true,
// in their original order. The receiver is left untouched.
func (d *Dataset) Subset(keep []bool) (*Dataset, error) {
	if len(keep) != len(d.records) {
		return nil, errors.InternalError(fmt.Sprintf("mask has %d entries for %d records", len(keep), len(d.records)))
	}

	out := &Dataset{
		schema:  d.schema,
		records: make([]Record, 0, len(d.records)),
		numeric: make(map[string][]float64, len(d.numeric)),
	}
	for i, k := range keep {
		if k {
			out.records = append(out.records, d.records[i])
		}
	}
	for name, values := range d.numeric {
		kept := make([]float64, 0, len(out.records))
		for i, k := range keep {
			if k {
				kept = append(kept, values[i])
			}
		}
		out.numeric[name] = kept
	}
	return out, nil
}
