package table

import (
	"fmt"
	"io"

	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/xuri/excelize/v2"
)

// WriteCSV writes the table as comma-separated text with a header row.
// Nulls are written as empty cells.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := arrowcsv.NewWriter(w, t.rec.Schema(),
		arrowcsv.WithHeader(true),
		arrowcsv.WithNullWriter(""),
	)
	if err := cw.Write(t.rec); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return cw.Flush()
}

// WriteXLSX writes the table to the first sheet of a new workbook at path.
func (t *Table) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	header := t.Columns()
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cols := make([]Column, len(header))
	for i := range cols {
		cols[i] = t.columnAt(i)
	}

	row := make([]string, len(header))
	for r := 0; r < t.NumRows(); r++ {
		for c, col := range cols {
			row[c] = col.Value(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	return f.SaveAs(path)
}
