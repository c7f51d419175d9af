package sheets

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Tariffs"

var headers = []string{"Category", "Item", "Unit", "Price", "Minimum", "Increment %", "Valid from", "Valid to"}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// Filename returns the download name for the client's workbook.
func (s *Sheet) Filename() string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(s.ClientName), "_"), "_")
	if slug == "" {
		return fmt.Sprintf("tariffs_client_%d.xlsx", s.ClientID)
	}
	return fmt.Sprintf("tariffs_%s_%d.xlsx", slug, s.ClientID)
}

// WriteXLSX renders the sheet as a single-sheet workbook.
func WriteXLSX(w io.Writer, s *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", s.ClientName); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A2", &headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A2", "H2", headerStyle); err != nil {
		return fmt.Errorf("style headers: %w", err)
	}

	for i, line := range s.Lines {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		values := []any{
			line.Category,
			line.Item,
			line.Unit,
			line.Price,
			optionalFloat(line.Minimum),
			line.IncrementPct,
			line.ValidFrom.String(),
			"",
		}
		if line.ValidTo != nil {
			values[7] = line.ValidTo.String()
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "C", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "D", "H", 12); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func optionalFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
