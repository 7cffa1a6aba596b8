// Package dataset provides the typed tabular model the cleaner works on
package dataset

// Monitored columns, in the order fences are computed and reported.
const (
	ColumnITSpend       = "IT Spend"
	ColumnEmployeeCount = "Employee Count"
	ColumnPCCount       = "PC Count"
	ColumnSize          = "Size"
	ColumnRevenue       = "Revenue"
)

// MonitoredColumns returns a fresh copy of the fixed monitored column list
func MonitoredColumns() []string {
	return []string{ColumnITSpend, ColumnEmployeeCount, ColumnPCCount, ColumnSize, ColumnRevenue}
}

// ColumnKind is the type a column was inferred or required to have
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
)

func (k ColumnKind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// Column describes one field of the schema. Name is the unique key the
// column is looked up by; Header is the text the input carried, written
// back as is.
type Column struct {
	Name   string
	Header string
	Kind   ColumnKind
}

// Table is the raw, untyped form produced by readers
type Table struct {
	Headers []string
	Rows    [][]string
	// Index holds row identities carried over from a previous run's index
	// column. Nil means rows are identified by position.
	Index []int
}

// Record is one row. Cells keep the original text so pass-through
// columns are written back unchanged.
type Record struct {
	Index int
	Cells []string
}
