package models

// Penalty is a manual point adjustment for a team on a given day.
// Negative points are deductions, positive are bonuses.
type Penalty struct {
	ID     string `json:"id"`
	TeamID string `json:"team_id"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// Day groups the lobbies and sanctions of one competition day.
// Teams, when non-empty, overrides the tournament's global roster
// (used by scrims where lineups vary per day).
type Day struct {
	ID        string    `json:"id"`
	DayNumber int       `json:"day_number"`
	Date      *string   `json:"date,omitempty"` // ISO calendar date
	Teams     []Team    `json:"teams,omitempty"`
	Matches   []Match   `json:"matches"`
	Penalties []Penalty `json:"penalties"`
}

// MatchByID находит лобби по его ID.
func (d *Day) MatchByID(id string) *Match {
	for i := range d.Matches {
		if d.Matches[i].ID == id {
			return &d.Matches[i]
		}
	}
	return nil
}
