package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/idxholders/internal/models"
)

// DefaultSheet is the worksheet name used by WriteXLSX
const DefaultSheet = "Perubahan"

var classFontColors = map[models.Classification]string{
	models.ClassIncrease: "008000",
	models.ClassDecrease: "FF0000",
}

// WriteXLSX writes tbl to path as a single-sheet workbook. Cells keep their
// display strings; increase and decrease rows are coloured like the screen.
func WriteXLSX(path string, tbl *models.DerivedTable) error {
	if tbl == nil {
		return fmt.Errorf("nothing to export: %s", NoDataMessage)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DefaultSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	styles := make(map[models.Classification]int, len(classFontColors))
	for class, color := range classFontColors {
		id, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: color}})
		if err != nil {
			return fmt.Errorf("failed to create %s style: %w", class, err)
		}
		styles[class] = id
	}

	for j, name := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(DefaultSheet, cell, name); err != nil {
			return err
		}
	}
	if len(tbl.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(tbl.Columns), 1)
		if err := f.SetCellStyle(DefaultSheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for i, r := range tbl.Rows {
		rowNum := i + 2
		for j, value := range r.Cells {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(DefaultSheet, cell, value); err != nil {
				return err
			}
		}
		if style, ok := styles[r.Class]; ok && len(r.Cells) > 0 {
			first, _ := excelize.CoordinatesToCellName(1, rowNum)
			last, _ := excelize.CoordinatesToCellName(len(r.Cells), rowNum)
			if err := f.SetCellStyle(DefaultSheet, first, last, style); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
