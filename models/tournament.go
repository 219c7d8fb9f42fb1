package models

// EventType distinguishes fixed-schedule tournaments from ad hoc scrims.
type EventType string

const (
	EventScrim      EventType = "scrim"
	EventTournament EventType = "tournament"
)

// Tournament is the root aggregate. It is owned by exactly one user;
// admins may access all tournaments.
type Tournament struct {
	ID      string        `json:"id"`
	OwnerID string        `json:"owner_id"`
	Name    string        `json:"name"`
	Type    EventType     `json:"type"`
	Teams   []Team        `json:"teams"`
	Scoring ScoringPolicy `json:"scoring"`
	Days    []Day         `json:"days"`
}

// DayByID находит день по его ID.
func (t *Tournament) DayByID(id string) *Day {
	for i := range t.Days {
		if t.Days[i].ID == id {
			return &t.Days[i]
		}
	}
	return nil
}
