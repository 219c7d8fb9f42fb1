package models

// MatchResult is one team's outcome in a single lobby. TotalPoints is
// computed once at analysis time and stored; later scoring edits do not
// rewrite it.
type MatchResult struct {
	TeamID      string `json:"team_id"`
	Kills       int    `json:"kills"`
	Place       int    `json:"place"`
	TotalPoints int    `json:"total_points"`
}

// Match is one lobby within a day. Screenshots holds storage object
// keys, not image bytes.
type Match struct {
	ID          string        `json:"id"`
	MatchNumber int           `json:"match_number"`
	Screenshots []string      `json:"screenshots"`
	Results     []MatchResult `json:"results"`
	IsCompleted bool          `json:"is_completed"`
}

// ResultFor returns the stored result for a team, if any.
func (m *Match) ResultFor(teamID string) (MatchResult, bool) {
	for _, r := range m.Results {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return MatchResult{}, false
}
