// Package sheet reads statement exports (.xlsx, .xls, .csv) into one
// uniform document of row/cell values addressed by (sheet index, row
// index), with spreadsheet number-format strings preserved as hints for
// currency detection.
package sheet

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Cell is a single cell value. NumberFormat is the cell's number-format
// string when the source format carries one, "" otherwise.
type Cell struct {
	Text         string
	NumberFormat string
}

// Sheet is one sheet or logical section of the document.
type Sheet struct {
	Index int
	Rows  [][]Cell
}

// Document is one statement export. Rows are transient parse input; the
// document owns no state beyond the loaded values.
type Document struct {
	Filename string
	DocType  string
	Sheets   []Sheet
}

// ReadFile loads a document, dispatching on the file extension.
func ReadFile(path string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path)
	case ".xls":
		return ReadXLS(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported statement format %q", filepath.Ext(path))
	}
}
