package export

import (
	"io"

	excelize "github.com/xuri/excelize/v2"

	"confronto-service/internal/confronto/model"
	"confronto-service/internal/confronto/service"
)

const sheetName = "Confronto"

// WriteXLSX writes the comparison table as a plain workbook: one header row
// from the column contract, one data row per voce. No styling on purpose.
func WriteXLSX(w io.Writer, c model.Comparison) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for col, cdef := range c.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, cdef.Header); err != nil {
			return err
		}
	}

	for i, row := range c.Rows {
		flat := service.Flatten(row, c.Visible, c.Prefixes)
		for col, cdef := range c.Columns {
			v, ok := flat[cdef.Field]
			if !ok || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	_, err = f.WriteTo(w)
	return err
}
