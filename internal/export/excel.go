package export

import (
	"bytes"
	"fmt"

	"listabot/internal/models"

	"github.com/xuri/excelize/v2"
)

// Excel renders the roster as an .xlsx workbook with the canonical
// columns, a bold header, and status counts on a second sheet.
func Excel(contacts []models.Contact) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Lista"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	for col, h := range models.CSVHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(models.ColumnCount, 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	counts := make(map[string]int)
	for i, c := range contacts {
		row := c.Row()
		row[models.ColStatus] = models.CleanStatusForDisplay(row[models.ColStatus])
		for col, val := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheetName, cell, val)
		}
		st := c.Status
		if models.IsInContact(st) {
			st = "En contacto"
		}
		counts[st]++
	}

	_ = f.SetColWidth(sheetName, "A", "B", 18)
	_ = f.SetColWidth(sheetName, "C", "D", 16)
	_ = f.SetColWidth(sheetName, "E", "F", 24)

	const summaryName = "Resumen"
	if _, err := f.NewSheet(summaryName); err == nil {
		_ = f.SetCellValue(summaryName, "A1", "Estado")
		_ = f.SetCellValue(summaryName, "B1", "Cantidad")
		_ = f.SetCellStyle(summaryName, "A1", "B1", headerStyle)
		row := 2
		for _, st := range []string{
			models.StatusPending, "En contacto", models.StatusAccepted,
			models.StatusRejected, models.StatusWrongNumber, models.StatusCallBack,
		} {
			if n, ok := counts[st]; ok {
				_ = f.SetCellValue(summaryName, fmt.Sprintf("A%d", row), st)
				_ = f.SetCellValue(summaryName, fmt.Sprintf("B%d", row), n)
				row++
			}
		}
		_ = f.SetColWidth(summaryName, "A", "A", 22)
	}

	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %v", err)
	}
	return buf.Bytes(), nil
}
