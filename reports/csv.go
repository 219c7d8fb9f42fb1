package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/blackhacks/scrim-system/models"
)

var standingsHeader = []string{"Rank", "Team", "Kills", "Place Pts", "Kill Pts", "Sanctions", "Total"}

// WriteCSV пишет таблицу дня в CSV, по строке на команду.
func WriteCSV(w io.Writer, rows []models.StandingRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(standingsHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Rank),
			row.TeamName,
			strconv.Itoa(row.Kills),
			strconv.Itoa(row.PlacePts),
			strconv.Itoa(row.KillPts),
			strconv.Itoa(row.Sanctions),
			strconv.Itoa(row.Total),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Filename строит безопасное имя файла отчёта из названия турнира и
// номера дня, например "Weekly_Cup_day2.csv".
func Filename(tournamentName string, dayNumber int, ext string) string {
	name := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(tournamentName), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = "standings"
	}
	return fmt.Sprintf("%s_day%d%s", name, dayNumber, ext)
}
