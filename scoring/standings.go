package scoring

import (
	"sort"

	"github.com/blackhacks/scrim-system/models"
)

// ComputeStandings folds every completed lobby and every sanction of a
// day into one line per roster team. Teams with no results and no
// penalties still appear with all-zero stats.
//
// KillPts is derived from the currently configured PointsPerKill and
// PlacePts is whatever remains of the stored match totals after
// subtracting it. Editing the policy after results are recorded
// therefore skews the displayed split (the totals stay correct); this
// mirrors the long-standing behavior the operators rely on.
func ComputeStandings(day *models.Day, roster []models.Team, policy models.ScoringPolicy) []models.TeamStanding {
	standings := make([]models.TeamStanding, 0, len(roster))

	for _, team := range roster {
		line := models.TeamStanding{Team: team}

		if day != nil {
			for i := range day.Matches {
				res, ok := day.Matches[i].ResultFor(team.ID)
				if !ok {
					continue
				}
				killPts := res.Kills * policy.PointsPerKill
				line.Kills += res.Kills
				line.KillPts += killPts
				line.PlacePts += res.TotalPoints - killPts
			}
			for _, p := range day.Penalties {
				if p.TeamID == team.ID {
					line.PenaltyPts += p.Points
				}
			}
		}

		line.Total = line.PlacePts + line.KillPts + line.PenaltyPts
		standings = append(standings, line)
	}

	// Descending by total. Ties stay in roster order, no secondary key.
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})

	return standings
}

// ExportRows flattens standings into the only shape the reporting
// layer may consume.
func ExportRows(standings []models.TeamStanding) []models.StandingRow {
	rows := make([]models.StandingRow, len(standings))
	for i, s := range standings {
		rows[i] = models.StandingRow{
			Rank:      i + 1,
			TeamName:  s.Team.Name,
			Kills:     s.Kills,
			PlacePts:  s.PlacePts,
			KillPts:   s.KillPts,
			Sanctions: s.PenaltyPts,
			Total:     s.Total,
		}
	}
	return rows
}
