package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV loads a .csv export as a single-sheet document. Rows may be
// ragged; quoting follows the converter's output.
func ReadCSV(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc.Filename = path
	return doc, nil
}

func readCSV(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	s := Sheet{Index: 0}
	for _, rec := range records {
		cells := make([]Cell, len(rec))
		for i, text := range rec {
			cells[i] = Cell{Text: text}
		}
		s.Rows = append(s.Rows, cells)
	}
	return &Document{DocType: "text/csv", Sheets: []Sheet{s}}, nil
}
