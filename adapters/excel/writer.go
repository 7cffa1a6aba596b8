package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"companyclean/domain/dataset"
	"companyclean/internal"
	"companyclean/internal/errors"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// DataWriter writes datasets as CSV, TSV or XLSX, by default with a
// leading unnamed row-index column.
type DataWriter struct {
	logger    *internal.Logger
	withIndex bool
}

// NewDataWriter creates a writer that emits the row-index column
func NewDataWriter(logger *internal.Logger) *DataWriter {
	return &DataWriter{logger: logger, withIndex: true}
}

// NewRawDataWriter creates a writer for raw tables, without an index column
func NewRawDataWriter(logger *internal.Logger) *DataWriter {
	return &DataWriter{logger: logger, withIndex: false}
}

// WriteTable writes ds to path, replacing any existing file. The content
// goes to a temporary file in the same directory first and is renamed into
// place only after it was written completely. A replaced file keeps its
// permissions; a new one gets the same mode os.Create would give it.
func (w *DataWriter) WriteTable(ctx context.Context, path string, ds *dataset.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, ".companyclean-"+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return errors.Wrapf(err, "failed to create output in %s", dir)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	fileType := DetectFileType(path)
	switch fileType {
	case FileTypeXLSX:
		err = w.writeXLSX(tmp, ds)
	default:
		err = w.writeDelimited(tmp, ds, fileType.Comma())
	}
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to flush %s", path)
	}
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
			return errors.Wrapf(err, "failed to set permissions on %s", path)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrapf(err, "failed to move output into place at %s", path)
	}
	committed = true

	w.logger.Debug("[DataWriter] wrote %d rows to %s (%s)", ds.Len(), path, fileType)
	return nil
}

func (w *DataWriter) headerRow(ds *dataset.Dataset) []string {
	if !w.withIndex {
		return ds.Schema().Headers()
	}
	return append([]string{""}, ds.Schema().Headers()...)
}

func (w *DataWriter) writeDelimited(f *os.File, ds *dataset.Dataset, comma rune) error {
	cw := csv.NewWriter(f)
	cw.Comma = comma

	if err := cw.Write(w.headerRow(ds)); err != nil {
		return err
	}
	row := make([]string, 0, len(ds.Schema().Columns)+1)
	for _, rec := range ds.Records() {
		row = row[:0]
		if w.withIndex {
			row = append(row, strconv.Itoa(rec.Index))
		}
		row = append(row, rec.Cells...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX stores numeric columns as numbers so the workbook stays
// usable for analysis; text columns are written verbatim.
func (w *DataWriter) writeXLSX(f *os.File, ds *dataset.Dataset) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := DefaultSheet
	if idx, err := book.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := book.NewSheet(sheet)
		if err != nil {
			return err
		}
		book.SetActiveSheet(idx)
	}

	header := w.headerRow(ds)
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := book.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return err
	}

	columns := ds.Schema().Columns
	for r, rec := range ds.Records() {
		cells := make([]interface{}, 0, len(columns)+1)
		if w.withIndex {
			cells = append(cells, rec.Index)
		}
		for c, col := range columns {
			if col.Kind == dataset.KindNumeric {
				if v, ok := dataset.ParseNumber(rec.Cells[c]); ok {
					cells = append(cells, v)
					continue
				}
			}
			cells = append(cells, rec.Cells[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("row %d: %w", r+2, err)
		}
	}

	return book.Write(f)
}
