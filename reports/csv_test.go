package reports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/blackhacks/scrim-system/models"
)

var sampleRows = []models.StandingRow{
	{Rank: 1, TeamName: "Alpha", Kills: 12, PlacePts: 20, KillPts: 12, Sanctions: 0, Total: 32},
	{Rank: 2, TeamName: "Bravo", Kills: 7, PlacePts: 16, KillPts: 7, Sanctions: -5, Total: 18},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows))

	want := "Rank,Team,Kills,Place Pts,Kill Pts,Sanctions,Total\n" +
		"1,Alpha,12,20,12,0,32\n" +
		"2,Bravo,7,16,7,-5,18\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Weekly Cup", 2, sampleRows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(standingsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Cup, day 2", title)

	header, err := f.GetCellValue(standingsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Team", header)

	team, err := f.GetCellValue(standingsSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Bravo", team)

	total, err := f.GetCellValue(standingsSheet, "G3")
	require.NoError(t, err)
	assert.Equal(t, "32", total)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Weekly_Cup_day2.csv", Filename("Weekly Cup", 2, ".csv"))
	assert.Equal(t, "standings_day1.xlsx", Filename("///", 1, ".xlsx"))
	assert.Equal(t, "Scrim_9_day3.csv", Filename("  Scrim #9  ", 3, ".csv"))
}
