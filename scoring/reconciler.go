package scoring

import (
	"regexp"
	"strings"

	"github.com/blackhacks/scrim-system/models"
)

// Generic slot labels ("TEAM2", "Slot 7", "#4", "12") carry no name
// signal, only a slot number. They must bind by roster position, never
// by fuzzy matching, otherwise "TEAM2" would happily match a roster
// entry literally named "TEAM23".
var (
	genericLabel = regexp.MustCompile(`(?i)^(team|slot|#|no\.?)?\s*\d+$`)
	firstNumber  = regexp.MustCompile(`\d+`)
	alnumOnly    = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Reconcile maps raw extractor rows onto the active roster and returns
// at most one result per team, keyed by team id. The strategy is
// fixed and ordered: slot-index binding for generic labels first, then
// substring-containment fuzzy name matching in roster order. Rows that
// bind nowhere are dropped. When the same team is bound by several
// rows (e.g. once per screenshot) only the row with the numerically
// smallest place survives.
//
// Reconcile never fails; an empty map on non-empty input means "data
// found but unmatched", which callers must report distinctly from "no
// data found".
func Reconcile(roster []models.Team, policy models.ScoringPolicy, rows []models.ExtractedRow) map[string]models.MatchResult {
	results := make(map[string]models.MatchResult)

	for _, row := range rows {
		if row.Rank < 1 || row.Kills < 0 {
			// malformed extractor row, skip without aborting the batch
			continue
		}

		team, ok := bindRow(roster, row.TeamLabel)
		if !ok {
			continue
		}

		candidate := models.MatchResult{
			TeamID:      team.ID,
			Kills:       row.Kills,
			Place:       row.Rank,
			TotalPoints: ComputeTotal(policy, row.Rank, row.Kills),
		}

		existing, seen := results[team.ID]
		if !seen || candidate.Place < existing.Place {
			results[team.ID] = candidate
		}
	}

	return results
}

func bindRow(roster []models.Team, label string) (models.Team, bool) {
	trimmed := strings.TrimSpace(label)

	if genericLabel.MatchString(trimmed) {
		if num := firstNumber.FindString(trimmed); num != "" {
			if slot := atoiSafe(num); slot >= 1 && slot <= len(roster) {
				return roster[slot-1], true
			}
		}
	}

	// Fuzzy fallback: first roster team whose normalized name equals,
	// contains, or is contained by the normalized label.
	normLabel := normalizeName(trimmed)
	if normLabel == "" {
		return models.Team{}, false
	}
	for _, team := range roster {
		normTeam := normalizeName(team.Name)
		if normTeam == "" {
			continue
		}
		if normTeam == normLabel || strings.Contains(normTeam, normLabel) || strings.Contains(normLabel, normTeam) {
			return team, true
		}
	}
	return models.Team{}, false
}

func normalizeName(s string) string {
	return strings.ToLower(alnumOnly.ReplaceAllString(s, ""))
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return 0
		}
	}
	return n
}
