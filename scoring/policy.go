package scoring

import "github.com/blackhacks/scrim-system/models"

// ComputeTotal returns the combined placement and kill points for a
// single match result. Placement lookup is 1-indexed; a place beyond
// the configured table contributes zero, never an error. Kills are
// assumed non-negative by caller contract.
func ComputeTotal(policy models.ScoringPolicy, place, kills int) int {
	return placePoints(policy, place) + kills*policy.PointsPerKill
}

func placePoints(policy models.ScoringPolicy, place int) int {
	idx := place - 1
	if idx < 0 || idx >= len(policy.RankPoints) {
		return 0
	}
	return policy.RankPoints[idx]
}
