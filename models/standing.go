package models

// TeamStanding is one team's aggregated line for a day.
// PlacePts is back-derived from the stored match totals minus the
// kill contribution under the currently configured policy.
type TeamStanding struct {
	Team       Team `json:"team"`
	Kills      int  `json:"kills"`
	PlacePts   int  `json:"place_pts"`
	KillPts    int  `json:"kill_pts"`
	PenaltyPts int  `json:"penalty_pts"`
	Total      int  `json:"total"`
}

// StandingRow is the flat shape handed to the reporting/export layer.
// Reports must consume this and never reach into matches or penalties.
type StandingRow struct {
	Rank      int    `json:"rank"`
	TeamName  string `json:"team_name"`
	Kills     int    `json:"kills"`
	PlacePts  int    `json:"place_pts"`
	KillPts   int    `json:"kill_pts"`
	Sanctions int    `json:"sanctions"`
	Total     int    `json:"total"`
}
