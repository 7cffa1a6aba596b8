package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"companyclean/domain/dataset"
	"companyclean/internal"
	"companyclean/internal/errors"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader handles reading Excel and delimited text files
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a reader that handles CSV, TSV and XLSX files
func NewDataReader(logger *internal.Logger) *DataReader {
	return &DataReader{logger: logger}
}

// ReadTable reads the file at path into a raw table. A header row and at
// least one data row are required.
func (r *DataReader) ReadTable(ctx context.Context, path string) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("input file not found: %s", path))
	}
	if err != nil {
		return nil, errors.InvalidInputf(err, "cannot access input file %s", path)
	}
	if info.IsDir() {
		return nil, errors.InvalidInput(fmt.Sprintf("input path is a directory: %s", path))
	}

	fileType := DetectFileType(path)
	r.logger.Debug("[DataReader] Starting to read %s file: %s", fileType, path)

	readStart := time.Now()
	var rows [][]string
	switch fileType {
	case FileTypeXLSX:
		rows, err = r.readExcelRows(path)
	default:
		rows, err = r.readDelimitedRows(path, fileType.Comma())
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] %s file read in %.2fms (%d rows)",
		strings.ToUpper(string(fileType)), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("input file is empty: %s", path))
	}
	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("input file must have a header row and at least one data row: %s", path))
	}

	return processRows(rows)
}

// readDelimitedRows reads comma or tab separated text
func (r *DataReader) readDelimitedRows(path string, comma rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.InvalidInputf(err, "failed to open input file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = 0

	rows, err := reader.ReadAll()
	if err != nil && err != io.EOF {
		return nil, errors.InvalidInputf(err, "failed to parse %s", path)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

// readExcelRows reads the first sheet of a workbook. Cells come back as
// stored values, not display text, so number formats such as "#,##0" do
// not leak into the data. Trailing empty cells are restored so every row is
// as wide as the header, and blank rows are skipped the same way the CSV
// reader skips blank lines.
func (r *DataReader) readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.InvalidInputf(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("workbook has no sheets: %s", path))
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.InvalidInputf(err, "failed to read sheet %q", sheets[0])
	}

	var rows [][]string
	var sheetRows []int
	for i, row := range raw {
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
		sheetRows = append(sheetRows, i+1)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) > width {
			return nil, errors.InvalidInput(fmt.Sprintf("sheet %q row %d has %d cells, header has %d", sheets[0], sheetRows[i], len(row), width))
		}
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}

// processRows splits off the header and, when present, the unnamed index
// column written by a previous run. Header text is kept as read.
func processRows(rows [][]string) (*dataset.Table, error) {
	headers := rows[0]
	data := rows[1:]

	index, ok := carriedIndex(headers, data)
	if !ok {
		return &dataset.Table{Headers: headers, Rows: data}, nil
	}

	trimmed := make([][]string, len(data))
	for i, row := range data {
		trimmed[i] = row[1:]
	}
	return &dataset.Table{Headers: headers[1:], Rows: trimmed, Index: index}, nil
}

// carriedIndex returns the values of a leading unnamed column when every
// one of them is a non-negative integer. Any other unnamed first column is
// ordinary data.
func carriedIndex(headers []string, data [][]string) ([]int, bool) {
	if len(headers) < 2 || !isIndexHeader(headers[0]) {
		return nil, false
	}
	index := make([]int, len(data))
	for i, row := range data {
		if len(row) == 0 {
			return nil, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || n < 0 {
			return nil, false
		}
		index[i] = n
	}
	return index, true
}

func isIndexHeader(h string) bool {
	return h == "" || h == "Unnamed: 0"
}
