package models

// ExtractedRow is one row as returned by the external screenshot
// extractor. TeamLabel is whatever text the extractor read off the
// scoreboard and cannot be trusted to match a roster name.
type ExtractedRow struct {
	TeamLabel string `json:"team_name"`
	Rank      int    `json:"rank"`
	Kills     int    `json:"kills"`
}
