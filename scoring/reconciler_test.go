package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhacks/scrim-system/models"
)

var reconcilePolicy = models.ScoringPolicy{
	PointsPerKill: 1,
	RankPoints:    []int{10, 6, 4, 2},
}

func roster(names ...string) []models.Team {
	teams := make([]models.Team, len(names))
	for i, n := range names {
		teams[i] = models.Team{ID: "team-" + n, Name: n}
	}
	return teams
}

func TestReconcile_SlotIdentifierBindsByIndex(t *testing.T) {
	// "TEAM2" must bind to the second roster slot, not fuzzy-match any name.
	teams := roster("X", "Y", "Z")

	results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
		{TeamLabel: "TEAM2", Rank: 1, Kills: 5},
	})

	require.Len(t, results, 1)
	res, ok := results["team-Y"]
	require.True(t, ok)
	assert.Equal(t, 1, res.Place)
	assert.Equal(t, 5, res.Kills)
	assert.Equal(t, 15, res.TotalPoints)
}

func TestReconcile_SlotVariants(t *testing.T) {
	teams := roster("A", "B", "C", "D")
	tests := []struct {
		label string
		want  string
	}{
		{"TEAM1", "team-A"},
		{"team 3", "team-C"},
		{"Slot 2", "team-B"},
		{"#4", "team-D"},
		{"No. 2", "team-B"},
		{"2", "team-B"},
	}
	for _, tt := range tests {
		results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
			{TeamLabel: tt.label, Rank: 1, Kills: 0},
		})
		require.Len(t, results, 1, "label %q", tt.label)
		_, ok := results[tt.want]
		assert.True(t, ok, "label %q should bind %s", tt.label, tt.want)
	}
}

func TestReconcile_SlotOutOfRangeFallsThrough(t *testing.T) {
	// "TEAM9" on a 3-team roster has no slot to bind; it also matches no
	// name, so the row is dropped.
	teams := roster("X", "Y", "Z")

	results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
		{TeamLabel: "TEAM9", Rank: 1, Kills: 5},
	})

	assert.Empty(t, results)
}

func TestReconcile_FuzzyNameMatching(t *testing.T) {
	teams := roster("Night Wolves", "RedDragons")

	tests := []struct {
		label string
		want  string
	}{
		{"NIGHT WOLVES", "team-Night Wolves"}, // exact after normalization
		{"nightwolves", "team-Night Wolves"},
		{"Red Dragons esports", "team-RedDragons"}, // roster name contained in label
		{"Dragons", "team-RedDragons"},             // label contained in roster name
	}
	for _, tt := range tests {
		results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
			{TeamLabel: tt.label, Rank: 2, Kills: 1},
		})
		require.Len(t, results, 1, "label %q", tt.label)
		_, ok := results[tt.want]
		assert.True(t, ok, "label %q should bind %s", tt.label, tt.want)
	}
}

func TestReconcile_FirstRosterMatchWins(t *testing.T) {
	// Ambiguous label: substring of both names. Roster order decides.
	teams := roster("Alpha One", "Alpha Two")

	results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
		{TeamLabel: "Alpha", Rank: 1, Kills: 0},
	})

	require.Len(t, results, 1)
	_, ok := results["team-Alpha One"]
	assert.True(t, ok)
}

func TestReconcile_DuplicateRowsKeepBestPlace(t *testing.T) {
	teams := roster("X", "Y", "Z")

	results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
		{TeamLabel: "X", Rank: 3, Kills: 2},
		{TeamLabel: "X", Rank: 1, Kills: 7},
		{TeamLabel: "X", Rank: 2, Kills: 4},
	})

	require.Len(t, results, 1)
	res := results["team-X"]
	assert.Equal(t, 1, res.Place)
	assert.Equal(t, 7, res.Kills)
	assert.Equal(t, 17, res.TotalPoints)
}

func TestReconcile_NeverDuplicatesTeams(t *testing.T) {
	teams := roster("X", "Y")

	// "TEAM1" (slot) and "X" (fuzzy) both resolve to the first team.
	results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
		{TeamLabel: "TEAM1", Rank: 2, Kills: 0},
		{TeamLabel: "X", Rank: 1, Kills: 3},
	})

	require.Len(t, results, 1)
	assert.Equal(t, 1, results["team-X"].Place)
}

func TestReconcile_MalformedRowsSkipped(t *testing.T) {
	teams := roster("X", "Y")

	results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
		{TeamLabel: "X", Rank: 0, Kills: 3},  // rank never valid below 1
		{TeamLabel: "Y", Rank: 2, Kills: -1}, // negative kills
		{TeamLabel: "Y", Rank: 2, Kills: 4},  // fine
	})

	require.Len(t, results, 1)
	assert.Equal(t, 4, results["team-Y"].Kills)
}

func TestReconcile_TotalMismatchReturnsEmptyMap(t *testing.T) {
	teams := roster("X", "Y")

	results := Reconcile(teams, reconcilePolicy, []models.ExtractedRow{
		{TeamLabel: "Unknown Squad", Rank: 1, Kills: 5},
		{TeamLabel: "Mystery", Rank: 2, Kills: 3},
	})

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestReconcile_EmptyInput(t *testing.T) {
	results := Reconcile(roster("X"), reconcilePolicy, nil)
	assert.Empty(t, results)
}
