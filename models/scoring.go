package models

// ScoringPolicy maps placement and kills to points.
// RankPoints[0] is first place. Placements beyond the configured
// length are worth zero placement points.
type ScoringPolicy struct {
	PointsPerKill int   `json:"points_per_kill"`
	RankPoints    []int `json:"rank_points"`
}

// ScoringPreset is a named, reusable scoring policy.
type ScoringPreset struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Policy ScoringPolicy `json:"policy"`
}

// DefaultScoringPolicy returns the stock battle-royale table:
// 20 points for first, tapering to 1 by 17th, zero from 21st on,
// one point per kill.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		PointsPerKill: 1,
		RankPoints: []int{
			20, 16, 15, 14, 13, 12, 11, 10, 9, 8,
			7, 6, 5, 4, 3, 2, 1, 1, 1, 1,
			0, 0, 0, 0, 0,
		},
	}
}
