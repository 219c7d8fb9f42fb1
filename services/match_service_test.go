package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackhacks/scrim-system/models"
)

type matchFixture struct {
	svc       MatchService
	repo      *memTournamentRepo
	uploader  *memUploader
	extractor *fakeExtractor
	notifier  *recordingNotifier

	tournamentID string
	dayID        string
}

// newMatchFixture seeds one tournament with teams Alpha and Bravo and a
// single empty day.
func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	repo := &memTournamentRepo{}
	uploader := newMemUploader()
	extractor := &fakeExtractor{rows: map[string][]models.ExtractedRow{}}
	notifier := &recordingNotifier{}

	tournament := &models.Tournament{
		ID:      "t1",
		OwnerID: ownerActor.UserID,
		Name:    "Scrim",
		Type:    models.EventScrim,
		Teams: []models.Team{
			{ID: "team-alpha", Name: "Alpha"},
			{ID: "team-bravo", Name: "Bravo"},
		},
		Scoring: models.DefaultScoringPolicy(),
		Days: []models.Day{{
			ID:        "d1",
			DayNumber: 1,
			Matches:   []models.Match{},
			Penalties: []models.Penalty{},
		}},
	}
	require.NoError(t, repo.Save(context.Background(), tournament))

	return &matchFixture{
		svc:          NewMatchService(repo, uploader, extractor, notifier),
		repo:         repo,
		uploader:     uploader,
		extractor:    extractor,
		notifier:     notifier,
		tournamentID: "t1",
		dayID:        "d1",
	}
}

func (f *matchFixture) addMatch(t *testing.T) *models.Match {
	t.Helper()
	match, err := f.svc.AddMatch(context.Background(), ownerActor, f.tournamentID, f.dayID)
	require.NoError(t, err)
	return match
}

func (f *matchFixture) attach(t *testing.T, matchID, payload string) string {
	t.Helper()
	match, err := f.svc.AttachScreenshot(context.Background(), ownerActor, f.tournamentID, f.dayID, matchID, []byte(payload), "image/png")
	require.NoError(t, err)
	return match.Screenshots[len(match.Screenshots)-1]
}

func (f *matchFixture) storedMatch(t *testing.T, matchID string) *models.Match {
	t.Helper()
	tournament, err := f.repo.GetByID(context.Background(), f.tournamentID)
	require.NoError(t, err)
	match := tournament.DayByID(f.dayID).MatchByID(matchID)
	require.NotNil(t, match)
	return match
}

func TestAddMatchNumbersSequentially(t *testing.T) {
	f := newMatchFixture(t)

	first := f.addMatch(t)
	second := f.addMatch(t)
	assert.Equal(t, 1, first.MatchNumber)
	assert.Equal(t, 2, second.MatchNumber)
}

func TestAttachScreenshotUploadsAndTracksKey(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)

	key := f.attach(t, match.ID, "shot1")
	assert.Contains(t, f.uploader.objects, key)

	stored := f.storedMatch(t, match.ID)
	assert.Equal(t, []string{key}, stored.Screenshots)
}

func TestAttachScreenshotValidation(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)
	ctx := context.Background()

	_, err := f.svc.AttachScreenshot(ctx, ownerActor, f.tournamentID, f.dayID, match.ID, nil, "image/png")
	assert.ErrorIs(t, err, ErrScreenshotsRequired)

	_, err = f.svc.AttachScreenshot(ctx, ownerActor, f.tournamentID, f.dayID, match.ID, []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = f.svc.AttachScreenshot(ctx, ownerActor, f.tournamentID, f.dayID, "missing", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRemoveScreenshotDeletesObject(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)
	key := f.attach(t, match.ID, "shot1")

	updated, err := f.svc.RemoveScreenshot(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID, key)
	require.NoError(t, err)
	assert.Empty(t, updated.Screenshots)
	assert.Contains(t, f.uploader.deleted, key)

	_, err = f.svc.RemoveScreenshot(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID, key)
	assert.ErrorIs(t, err, ErrScreenshotNotFound)
}

func TestAnalyzeCombinesScreenshotsAndStoresResults(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)
	f.attach(t, match.ID, "shot1")
	f.attach(t, match.ID, "shot2")

	// Первый скриншот называет команду по слоту, второй по имени.
	f.extractor.rows["shot1"] = []models.ExtractedRow{{TeamLabel: "TEAM1", Rank: 1, Kills: 5}}
	f.extractor.rows["shot2"] = []models.ExtractedRow{{TeamLabel: "Bravo", Rank: 2, Kills: 3}}

	analyzed, err := f.svc.Analyze(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID)
	require.NoError(t, err)
	assert.True(t, analyzed.IsCompleted)
	assert.Equal(t, 2, f.extractor.calls)

	alpha, ok := analyzed.ResultFor("team-alpha")
	require.True(t, ok)
	assert.Equal(t, 1, alpha.Place)
	assert.Equal(t, 5, alpha.Kills)
	assert.Equal(t, 25, alpha.TotalPoints) // 20 за место + 5 за килы

	bravo, ok := analyzed.ResultFor("team-bravo")
	require.True(t, ok)
	assert.Equal(t, 19, bravo.TotalPoints)

	require.NotEmpty(t, f.notifier.events)
	assert.Equal(t, "t1/d1", f.notifier.events[len(f.notifier.events)-1])
}

func TestAnalyzeDistinguishesEmptyFromUnmatched(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)
	f.attach(t, match.ID, "shot1")

	// Экстрактор ничего не разглядел.
	_, err := f.svc.Analyze(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID)
	assert.ErrorIs(t, err, ErrExtractionEmpty)

	// Строки есть, но ни одна не совпала с составом.
	f.extractor.rows["shot1"] = []models.ExtractedRow{{TeamLabel: "Strangers", Rank: 1, Kills: 2}}
	_, err = f.svc.Analyze(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID)
	assert.ErrorIs(t, err, ErrExtractionUnmatched)
}

func TestAnalyzeRequiresScreenshots(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)

	_, err := f.svc.Analyze(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID)
	assert.ErrorIs(t, err, ErrMatchNoScreenshots)
}

func TestResetClearsResultsKeepsScreenshots(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)
	key := f.attach(t, match.ID, "shot1")
	f.extractor.rows["shot1"] = []models.ExtractedRow{{TeamLabel: "Alpha", Rank: 1, Kills: 2}}

	_, err := f.svc.Analyze(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID)
	require.NoError(t, err)

	reset, err := f.svc.Reset(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID)
	require.NoError(t, err)
	assert.False(t, reset.IsCompleted)
	assert.Empty(t, reset.Results)
	assert.Equal(t, []string{key}, reset.Screenshots, "скриншоты переживают сброс")
}

func TestRemoveMatchCleansUpScreenshots(t *testing.T) {
	f := newMatchFixture(t)
	match := f.addMatch(t)
	key := f.attach(t, match.ID, "shot1")

	require.NoError(t, f.svc.RemoveMatch(context.Background(), ownerActor, f.tournamentID, f.dayID, match.ID))
	assert.Contains(t, f.uploader.deleted, key)

	tournament, err := f.repo.GetByID(context.Background(), f.tournamentID)
	require.NoError(t, err)
	assert.Empty(t, tournament.DayByID(f.dayID).Matches)
}

func TestRemoveMatchDeletesOnlyItsScreenshots(t *testing.T) {
	f := newMatchFixture(t)
	first := f.addMatch(t)
	second := f.addMatch(t)
	firstKey := f.attach(t, first.ID, "shot1")
	secondKey := f.attach(t, second.ID, "shot2")

	// Удаляется не последний матч: фильтрация переписывает срез дня,
	// скриншоты выжившего матча обязаны остаться в хранилище.
	require.NoError(t, f.svc.RemoveMatch(context.Background(), ownerActor, f.tournamentID, f.dayID, first.ID))

	assert.Contains(t, f.uploader.deleted, firstKey, "скриншоты удалённого матча подчищаются")
	assert.NotContains(t, f.uploader.deleted, secondKey, "скриншоты выжившего матча не трогаем")
	assert.Contains(t, f.uploader.objects, secondKey)

	survivor := f.storedMatch(t, second.ID)
	assert.Equal(t, []string{secondKey}, survivor.Screenshots)
}

func TestPenaltyLifecycle(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	penalty, err := f.svc.AddPenalty(ctx, ownerActor, f.tournamentID, f.dayID, PenaltyInput{
		TeamID: "team-alpha",
		Points: -10,
		Reason: "teaming",
	})
	require.NoError(t, err)
	assert.Equal(t, -10, penalty.Points)
	assert.NotEmpty(t, f.notifier.events)

	// Санкция против команды, которой нет в составе, записывается в
	// журнал и остаётся инертной, а не отклоняется.
	ghost, err := f.svc.AddPenalty(ctx, ownerActor, f.tournamentID, f.dayID, PenaltyInput{
		TeamID: "ghost",
		Points: -50,
		Reason: "removed from event",
	})
	require.NoError(t, err)

	tournament, err := f.repo.GetByID(ctx, f.tournamentID)
	require.NoError(t, err)
	assert.Len(t, tournament.DayByID(f.dayID).Penalties, 2)

	require.NoError(t, f.svc.RemovePenalty(ctx, ownerActor, f.tournamentID, f.dayID, ghost.ID))
	require.NoError(t, f.svc.RemovePenalty(ctx, ownerActor, f.tournamentID, f.dayID, penalty.ID))
	assert.ErrorIs(t, f.svc.RemovePenalty(ctx, ownerActor, f.tournamentID, f.dayID, penalty.ID), ErrPenaltyNotFound)
}

func TestMatchOpsEnforceOwnership(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.AddMatch(context.Background(), otherActor, f.tournamentID, f.dayID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = f.svc.AddMatch(context.Background(), adminActor, f.tournamentID, f.dayID)
	assert.NoError(t, err)
}
