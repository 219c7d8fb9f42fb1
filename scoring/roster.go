package scoring

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/blackhacks/scrim-system/models"
)

// Операторы вставляют ростер как есть из чатов: с нумерацией,
// маркерами и невидимыми символами после копипаста.
var leadingNumbering = regexp.MustCompile(`^#?\d+[.\):\-\s]+\s*`)

// CleanTeamName strips a leading numbering/bullet pattern ("1.", "#3 -",
// "2)") and invisible Unicode marks, then trims. Position in the
// cleaned list is meaningful: it becomes the team's implicit slot
// number for generic-identifier matching.
func CleanTeamName(raw string) string {
	name := strings.TrimSpace(raw)
	name = leadingNumbering.ReplaceAllString(name, "")
	name = strings.Map(func(r rune) rune {
		// zero-width space/joiners, BOM, word joiner
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u2060':
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// ImportRoster turns raw pasted lines into teams with fresh ids,
// dropping lines that clean down to nothing. Order is preserved.
func ImportRoster(rawLines []string) []models.Team {
	return MergeRoster(nil, rawLines)
}

// MergeRoster rebuilds a roster from raw lines against an existing one.
// A cleaned name that exactly matches an existing team keeps that
// team's id, preserving historical result linkage; everything else
// gets a fresh id. Existing teams not re-listed are dropped.
func MergeRoster(existing []models.Team, rawLines []string) []models.Team {
	teams := make([]models.Team, 0, len(rawLines))
	for _, line := range rawLines {
		name := CleanTeamName(line)
		if name == "" {
			continue
		}
		team := models.Team{ID: uuid.NewString(), Name: name}
		for _, prev := range existing {
			if prev.Name == name {
				team.ID = prev.ID
				break
			}
		}
		teams = append(teams, team)
	}
	return teams
}

// ActiveRoster resolves which roster applies to a day: the day's
// override when present and non-empty, else the tournament's global
// roster.
func ActiveRoster(day *models.Day, tournament *models.Tournament) []models.Team {
	if day != nil && len(day.Teams) > 0 {
		return day.Teams
	}
	return tournament.Teams
}
