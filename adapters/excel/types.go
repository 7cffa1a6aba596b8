package excel

import (
	"path/filepath"
	"strings"
)

// FileType is the on-disk table format, chosen from the file extension
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeTSV  FileType = "tsv"
	FileTypeXLSX FileType = "xlsx"
)

// DefaultSheet is the sheet written to new workbooks
const DefaultSheet = "Sheet1"

// DetectFileType maps an extension to a format. Anything that is not a
// workbook or .tsv is read as comma-delimited text.
func DetectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	case ".tsv", ".tab":
		return FileTypeTSV
	default:
		return FileTypeCSV
	}
}

// Comma returns the field delimiter for delimited text formats
func (t FileType) Comma() rune {
	if t == FileTypeTSV {
		return '\t'
	}
	return ','
}
