package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhacks/scrim-system/models"
)

var (
	ownerActor = Actor{UserID: "owner-1", Role: models.RoleUser}
	adminActor = Actor{UserID: "admin-1", Role: models.RoleAdmin}
	otherActor = Actor{UserID: "intruder", Role: models.RoleUser}
)

func newTournamentFixture(parser *fakeParser) (TournamentService, *memTournamentRepo) {
	repo := &memTournamentRepo{}
	if parser == nil {
		parser = &fakeParser{}
	}
	return NewTournamentService(repo, parser), repo
}

func TestCreateTournamentGeneratesDayPerDate(t *testing.T) {
	svc, _ := newTournamentFixture(nil)

	tournament, err := svc.Create(context.Background(), ownerActor, CreateTournamentInput{
		Name:      "Weekly Cup",
		Type:      "tournament",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-03",
		TeamLines: []string{"1. Alpha", "2) Bravo", "#3 Charlie"},
	})
	require.NoError(t, err)

	assert.Equal(t, ownerActor.UserID, tournament.OwnerID)
	assert.Equal(t, models.EventTournament, tournament.Type)
	assert.Equal(t, models.DefaultScoringPolicy(), tournament.Scoring)

	require.Len(t, tournament.Days, 3)
	for i, day := range tournament.Days {
		assert.Equal(t, i+1, day.DayNumber)
		require.NotNil(t, day.Date)
	}
	assert.Equal(t, "2026-09-01", *tournament.Days[0].Date)
	assert.Equal(t, "2026-09-03", *tournament.Days[2].Date)

	// Нумерация и префиксы в строках состава вычищаются при импорте.
	require.Len(t, tournament.Teams, 3)
	assert.Equal(t, "Alpha", tournament.Teams[0].Name)
	assert.Equal(t, "Bravo", tournament.Teams[1].Name)
	assert.Equal(t, "Charlie", tournament.Teams[2].Name)
}

func TestCreateScrimStartsWithoutDays(t *testing.T) {
	svc, _ := newTournamentFixture(nil)

	scrim, err := svc.Create(context.Background(), ownerActor, CreateTournamentInput{
		Name: "Evening Scrim",
		Type: "scrim",
	})
	require.NoError(t, err)
	assert.Empty(t, scrim.Days)
}

func TestCreateAcceptsInitialScoring(t *testing.T) {
	svc, _ := newTournamentFixture(nil)

	custom := models.ScoringPolicy{
		PointsPerKill: 2,
		RankPoints:    []int{10, 6, 4, 2},
	}
	created, err := svc.Create(context.Background(), ownerActor, CreateTournamentInput{
		Name:    "Custom Cup",
		Type:    "scrim",
		Scoring: &custom,
	})
	require.NoError(t, err)
	assert.Equal(t, custom, created.Scoring, "политика из мастера ставится без второго запроса")
}

func TestCreateTournamentValidation(t *testing.T) {
	svc, _ := newTournamentFixture(nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerActor, CreateTournamentInput{Type: "scrim"})
	assert.ErrorIs(t, err, ErrEventNameRequired)

	_, err = svc.Create(ctx, ownerActor, CreateTournamentInput{Name: "X", Type: "league"})
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = svc.Create(ctx, ownerActor, CreateTournamentInput{
		Name: "X", Type: "tournament", StartDate: "2026-09-03", EndDate: "2026-09-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.Create(ctx, ownerActor, CreateTournamentInput{
		Name: "X", Type: "tournament", StartDate: "not-a-date", EndDate: "2026-09-01",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestListScopesByOwnerUnlessAdmin(t *testing.T) {
	svc, _ := newTournamentFixture(nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerActor, CreateTournamentInput{Name: "Mine", Type: "scrim"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, otherActor, CreateTournamentInput{Name: "Theirs", Type: "scrim"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, ownerActor)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Name)

	all, err := svc.List(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOwnershipEnforced(t *testing.T) {
	svc, _ := newTournamentFixture(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerActor, CreateTournamentInput{Name: "Mine", Type: "scrim"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, otherActor, created.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	// Админ имеет доступ к любому турниру.
	_, err = svc.Get(ctx, adminActor, created.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, ownerActor, "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestUpdateTeamsPreservesIDs(t *testing.T) {
	svc, _ := newTournamentFixture(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerActor, CreateTournamentInput{
		Name: "Mine", Type: "scrim", TeamLines: []string{"Alpha", "Bravo"},
	})
	require.NoError(t, err)
	alphaID := created.Teams[0].ID

	updated, err := svc.UpdateTeams(ctx, ownerActor, created.ID, []string{"Alpha", "Charlie"})
	require.NoError(t, err)
	require.Len(t, updated.Teams, 2)
	assert.Equal(t, alphaID, updated.Teams[0].ID, "unchanged name keeps its id")
	assert.Equal(t, "Charlie", updated.Teams[1].Name)
	assert.NotEqual(t, created.Teams[1].ID, updated.Teams[1].ID)
}

func TestUpdateScoringFromText(t *testing.T) {
	custom := &models.ScoringPolicy{PointsPerKill: 2, RankPoints: []int{10, 5}}
	svc, _ := newTournamentFixture(&fakeParser{policy: custom})
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerActor, CreateTournamentInput{Name: "Mine", Type: "scrim"})
	require.NoError(t, err)

	updated, changed, err := svc.UpdateScoringFromText(ctx, ownerActor, created.ID, "2 points per kill, 10 for the win")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, *custom, updated.Scoring)
}

func TestUpdateScoringFromTextKeepsPolicyWhenUnparseable(t *testing.T) {
	svc, _ := newTournamentFixture(&fakeParser{policy: nil})
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerActor, CreateTournamentInput{Name: "Mine", Type: "scrim"})
	require.NoError(t, err)

	updated, changed, err := svc.UpdateScoringFromText(ctx, ownerActor, created.ID, "lorem ipsum")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.DefaultScoringPolicy(), updated.Scoring)
}

func TestAddDayNumbersSequentially(t *testing.T) {
	svc, _ := newTournamentFixture(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerActor, CreateTournamentInput{Name: "Scrim", Type: "scrim"})
	require.NoError(t, err)

	date := "2026-09-05"
	updated, err := svc.AddDay(ctx, ownerActor, created.ID, &date)
	require.NoError(t, err)
	updated, err = svc.AddDay(ctx, ownerActor, created.ID, nil)
	require.NoError(t, err)

	require.Len(t, updated.Days, 2)
	assert.Equal(t, 1, updated.Days[0].DayNumber)
	assert.Equal(t, 2, updated.Days[1].DayNumber)
	assert.Nil(t, updated.Days[1].Date)
}

func TestUpdateDayTeamsOverridesRoster(t *testing.T) {
	svc, _ := newTournamentFixture(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerActor, CreateTournamentInput{
		Name: "Scrim", Type: "scrim", TeamLines: []string{"Alpha"},
	})
	require.NoError(t, err)
	created, err = svc.AddDay(ctx, ownerActor, created.ID, nil)
	require.NoError(t, err)
	dayID := created.Days[0].ID

	updated, err := svc.UpdateDayTeams(ctx, ownerActor, created.ID, dayID, []string{"1. Delta", "2. Echo"})
	require.NoError(t, err)
	day := updated.DayByID(dayID)
	require.NotNil(t, day)
	require.Len(t, day.Teams, 2)
	assert.Equal(t, "Delta", day.Teams[0].Name)

	_, err = svc.UpdateDayTeams(ctx, ownerActor, created.ID, "missing", []string{"X"})
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestRenameAndDelete(t *testing.T) {
	svc, repo := newTournamentFixture(nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, ownerActor, CreateTournamentInput{Name: "Old", Type: "scrim"})
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, ownerActor, created.ID, "New")
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)

	_, err = svc.Rename(ctx, ownerActor, created.ID, "")
	assert.ErrorIs(t, err, ErrEventNameRequired)

	require.NoError(t, svc.Delete(ctx, ownerActor, created.ID))
	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
