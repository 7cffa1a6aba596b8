package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"companyclean/domain/dataset"
	"companyclean/internal"
	"companyclean/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const companiesCSV = `Company,IT Spend,Employee Count,PC Count,Size,Revenue,Notes
Acme,10,100,90,3,1000.5,"has, comma"
Globex,12,120,110,3,1100,
Initech,11,115,100,4,1050,plain
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, FileTypeXLSX, DetectFileType("raw/companies.XLSX"))
	assert.Equal(t, FileTypeTSV, DetectFileType("companies.tsv"))
	assert.Equal(t, FileTypeCSV, DetectFileType("companies.csv"))
	assert.Equal(t, FileTypeCSV, DetectFileType("companies.txt"))
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "raw.csv", "\ufeff"+companiesCSV)

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Company", "IT Spend", "Employee Count", "PC Count", "Size", "Revenue", "Notes"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "has, comma", table.Rows[0][6])
	assert.Nil(t, table.Index)
}

func TestReadTSV(t *testing.T) {
	path := writeFile(t, "raw.tsv", "IT Spend\tSize\n1\t2\n")

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, table.Rows)
}

func TestReadInvalidInputs(t *testing.T) {
	reader := NewDataReader(internal.Discard())
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.csv")},
		{"directory", t.TempDir()},
		{"empty file", writeFile(t, "empty.csv", "")},
		{"header only", writeFile(t, "header.csv", "IT Spend,Size\n")},
		{"ragged rows", writeFile(t, "ragged.csv", "IT Spend,Size\n1,2\n3\n")},
		{"bad quoting", writeFile(t, "quote.csv", "IT Spend,Size\n\"1,2\n")},
		{"not a workbook", writeFile(t, "fake.xlsx", "IT Spend\n1\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ReadTable(context.Background(), tt.path)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}
}

func TestReadCarriesIndexColumn(t *testing.T) {
	path := writeFile(t, "clean.csv", ",IT Spend,Size\n0,1,2\n4,3,4\n")

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"IT Spend", "Size"}, table.Headers)
	assert.Equal(t, []int{0, 4}, table.Index)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, table.Rows)
}

func TestReadKeepsUnnamedDataColumn(t *testing.T) {
	path := writeFile(t, "raw.csv", ",IT Spend,Size\nx,1,2\n3,3,4\n")

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Nil(t, table.Index)
	assert.Equal(t, []string{"", "IT Spend", "Size"}, table.Headers)
	assert.Equal(t, [][]string{{"x", "1", "2"}, {"3", "3", "4"}}, table.Rows)
}

func TestReadKeepsHeaderText(t *testing.T) {
	path := writeFile(t, "raw.csv", "IT Spend, Revenue ,Note,Note,\n1,2,a,b,\n")

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"IT Spend", " Revenue ", "Note", "Note", ""}, table.Headers)
}

func TestHeadersPassThroughUnchanged(t *testing.T) {
	raw := "Company,IT Spend,Employee Count,PC Count,Size,Revenue,Note, Note ,Note,\n" +
		"Acme,10,100,90,3,1000,a,b,c,\n" +
		"Globex,12,120,110,3,1100,d,e,f,\n"
	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), writeFile(t, "raw.csv", raw))
	require.NoError(t, err)
	ds, err := dataset.New(table, dataset.MonitoredColumns())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "clean.csv")
	require.NoError(t, NewDataWriter(internal.Discard()).WriteTable(context.Background(), out, ds))

	// encoding/csv quotes fields with leading spaces
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ",Company,IT Spend,Employee Count,PC Count,Size,Revenue,Note,\" Note \",Note,\n"+
		"0,Acme,10,100,90,3,1000,a,b,c,\n"+
		"1,Globex,12,120,110,3,1100,d,e,f,\n", string(content))

	again, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, table.Headers, again.Headers)
	assert.Equal(t, []int{0, 1}, again.Index)
}

func TestReadExcelUsesStoredNumbers(t *testing.T) {
	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow(DefaultSheet, "A1", &[]interface{}{"IT Spend", "Size"}))
	for i := 0; i < 5; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(DefaultSheet, cell, &[]interface{}{2000 + 1000*i, i + 1}))
	}
	style, err := book.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	require.NoError(t, err)
	require.NoError(t, book.SetCellStyle(DefaultSheet, "A2", "A6", style))
	path := filepath.Join(t.TempDir(), "styled.xlsx")
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "2000", table.Rows[0][0])

	ds, err := dataset.New(table, []string{dataset.ColumnITSpend})
	require.NoError(t, err)
	spend, err := ds.Column(dataset.ColumnITSpend)
	require.NoError(t, err)
	assert.Equal(t, []float64{2000, 3000, 4000, 5000, 6000}, spend)
}

func TestReadExcelReportsSheetRow(t *testing.T) {
	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow(DefaultSheet, "A1", &[]interface{}{"IT Spend", "Size"}))
	require.NoError(t, book.SetSheetRow(DefaultSheet, "A2", &[]interface{}{1, 2}))
	require.NoError(t, book.SetSheetRow(DefaultSheet, "A5", &[]interface{}{3, 4, 5}))
	path := filepath.Join(t.TempDir(), "wide.xlsx")
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	_, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "row 5 has 3 cells")
}

func loadCompanies(t *testing.T) *dataset.Dataset {
	t.Helper()
	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), writeFile(t, "raw.csv", companiesCSV))
	require.NoError(t, err)
	ds, err := dataset.New(table, dataset.MonitoredColumns())
	require.NoError(t, err)
	return ds
}

func TestWriteCSVWithIndex(t *testing.T) {
	ds := loadCompanies(t)
	sub, err := ds.Subset([]bool{true, false, true})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "clean.csv")
	require.NoError(t, NewDataWriter(internal.Discard()).WriteTable(context.Background(), out, sub))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `,Company,IT Spend,Employee Count,PC Count,Size,Revenue,Notes
0,Acme,10,100,90,3,1000.5,"has, comma"
2,Initech,11,115,100,4,1050,plain
`, string(content))
}

func TestWriteFileModes(t *testing.T) {
	t.Run("new file follows umask", func(t *testing.T) {
		dir := t.TempDir()
		ref, err := os.Create(filepath.Join(dir, "reference.csv"))
		require.NoError(t, err)
		require.NoError(t, ref.Close())
		want, err := os.Stat(ref.Name())
		require.NoError(t, err)

		out := filepath.Join(dir, "clean.csv")
		require.NoError(t, NewDataWriter(internal.Discard()).WriteTable(context.Background(), out, loadCompanies(t)))

		info, err := os.Stat(out)
		require.NoError(t, err)
		assert.Equal(t, want.Mode().Perm(), info.Mode().Perm())
	})
	t.Run("replaced file keeps its mode", func(t *testing.T) {
		out := writeFile(t, "clean.csv", "stale content\n")
		require.NoError(t, os.Chmod(out, 0o600))

		require.NoError(t, NewDataWriter(internal.Discard()).WriteTable(context.Background(), out, loadCompanies(t)))

		info, err := os.Stat(out)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})
}

func TestWriteOverwritesExisting(t *testing.T) {
	out := writeFile(t, "clean.csv", "stale content\n")
	require.NoError(t, NewDataWriter(internal.Discard()).WriteTable(context.Background(), out, loadCompanies(t)))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")
}

func TestWriteFailureLeavesNoFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing-dir", "clean.csv")
	err := NewDataWriter(internal.Discard()).WriteTable(context.Background(), out, loadCompanies(t))
	require.Error(t, err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := filepath.Join(t.TempDir(), "clean.csv")

	err := NewDataWriter(internal.Discard()).WriteTable(ctx, out, loadCompanies(t))
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestXLSXRoundTrip(t *testing.T) {
	ds := loadCompanies(t)
	sub, err := ds.Subset([]bool{false, true, true})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "clean.xlsx")
	require.NoError(t, NewDataWriter(internal.Discard()).WriteTable(context.Background(), out, sub))

	book, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer book.Close()
	cellType, err := book.GetCellType(DefaultSheet, "C2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, ds.Schema().Headers(), table.Headers)
	assert.Equal(t, []int{1, 2}, table.Index)
	assert.Equal(t, []string{"Globex", "12", "120", "110", "3", "1100", ""}, table.Rows[0])

	again, err := dataset.New(table, dataset.MonitoredColumns())
	require.NoError(t, err)
	revenue, err := again.Column(dataset.ColumnRevenue)
	require.NoError(t, err)
	assert.Equal(t, []float64{1100, 1050}, revenue)
}

func TestReadExcelPadsShortRows(t *testing.T) {
	book := excelize.NewFile()
	require.NoError(t, book.SetSheetRow(DefaultSheet, "A1", &[]interface{}{"IT Spend", "Size", "Notes"}))
	require.NoError(t, book.SetSheetRow(DefaultSheet, "A2", &[]interface{}{1, 2}))
	require.NoError(t, book.SetSheetRow(DefaultSheet, "A4", &[]interface{}{3, 4, "x"}))
	path := filepath.Join(t.TempDir(), "raw.xlsx")
	require.NoError(t, book.SaveAs(path))
	require.NoError(t, book.Close())

	table, err := NewDataReader(internal.Discard()).ReadTable(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", ""}, {"3", "4", "x"}}, table.Rows)
}
