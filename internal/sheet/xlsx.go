package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads an .xlsx export. Cell values are read raw (unformatted)
// and each cell's custom number format, when present, is carried as a
// hint so embedded currency codes survive the conversion.
func ReadXLSX(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc := &Document{
		Filename: path,
		DocType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}
	for sheetIdx, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}
		s := Sheet{Index: sheetIdx}
		for rowIdx, row := range rows {
			cells := make([]Cell, len(row))
			for colIdx, text := range row {
				cells[colIdx] = Cell{
					Text:         text,
					NumberFormat: cellNumberFormat(f, name, colIdx, rowIdx),
				}
			}
			s.Rows = append(s.Rows, cells)
		}
		doc.Sheets = append(doc.Sheets, s)
	}
	return doc, nil
}

func cellNumberFormat(f *excelize.File, sheet string, col, row int) string {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	styleID, err := f.GetCellStyle(sheet, axis)
	if err != nil {
		return ""
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || style.CustomNumFmt == nil {
		return ""
	}
	return *style.CustomNumFmt
}
