package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/blackhacks/scrim-system/models"
)

const standingsSheet = "Standings"

// WriteXLSX пишет таблицу дня в книгу XLSX с одним листом.
func WriteXLSX(w io.Writer, tournamentName string, dayNumber int, rows []models.StandingRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	title := fmt.Sprintf("%s, day %d", tournamentName, dayNumber)
	if err := f.SetCellValue(standingsSheet, "A1", title); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}

	for col, header := range standingsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(standingsSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		values := []interface{}{row.Rank, row.TeamName, row.Kills, row.PlacePts, row.KillPts, row.Sanctions, row.Total}
		if err := f.SetSheetRow(standingsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
