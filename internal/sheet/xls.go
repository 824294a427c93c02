package sheet

import (
	"fmt"

	"github.com/shakinm/xlsReader/xls"
)

// ReadXLS loads a legacy .xls export. The reader exposes no per-cell
// number formats, so cells carry text only.
func ReadXLS(path string) (*Document, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	doc := &Document{Filename: path, DocType: "application/vnd.ms-excel"}
	for sheetIdx := 0; sheetIdx < workbook.GetNumberSheets(); sheetIdx++ {
		ws, err := workbook.GetSheet(sheetIdx)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %d: %w", sheetIdx, err)
		}
		s := Sheet{Index: sheetIdx}
		for i := 0; i <= int(ws.GetNumberRows()); i++ {
			// Missing rows still occupy an index so provenance lines
			// keep matching the source document.
			var cells []Cell
			row, err := ws.GetRow(i)
			if err != nil || row == nil {
				s.Rows = append(s.Rows, cells)
				continue
			}
			for _, col := range row.GetCols() {
				cells = append(cells, Cell{Text: col.GetString()})
			}
			s.Rows = append(s.Rows, cells)
		}
		doc.Sheets = append(doc.Sheets, s)
	}
	return doc, nil
}
