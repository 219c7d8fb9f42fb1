package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/blackhacks/scrim-system/ai"
	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/repositories"
	"github.com/blackhacks/scrim-system/scoring"
	"github.com/blackhacks/scrim-system/storage"
)

const maxScreenshotBytes = 10 << 20 // 10 MiB

// StandingsNotifier пушит свежую таблицу подписчикам турнира.
// Реализуется websocket-хабом; nil-notifier допустим.
type StandingsNotifier interface {
	NotifyStandings(tournamentID, dayID string, standings []models.TeamStanding)
}

type MatchService interface {
	AddMatch(ctx context.Context, actor Actor, tournamentID, dayID string) (*models.Match, error)
	RemoveMatch(ctx context.Context, actor Actor, tournamentID, dayID, matchID string) error

	AttachScreenshot(ctx context.Context, actor Actor, tournamentID, dayID, matchID string, image []byte, contentType string) (*models.Match, error)
	RemoveScreenshot(ctx context.Context, actor Actor, tournamentID, dayID, matchID, key string) (*models.Match, error)

	// Analyze прогоняет все скриншоты лобби через экстрактор параллельно,
	// сопоставляет строки с активным составом и фиксирует результаты.
	Analyze(ctx context.Context, actor Actor, tournamentID, dayID, matchID string) (*models.Match, error)
	// Reset очищает результаты лобби, сохраняя скриншоты для повторного разбора.
	Reset(ctx context.Context, actor Actor, tournamentID, dayID, matchID string) (*models.Match, error)

	AddPenalty(ctx context.Context, actor Actor, tournamentID, dayID string, input PenaltyInput) (*models.Penalty, error)
	RemovePenalty(ctx context.Context, actor Actor, tournamentID, dayID, penaltyID string) error
}

type PenaltyInput struct {
	TeamID string `json:"team_id"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

type matchService struct {
	repo      repositories.TournamentRepository
	uploader  storage.FileUploader
	extractor ai.Extractor
	notifier  StandingsNotifier
}

func NewMatchService(
	repo repositories.TournamentRepository,
	uploader storage.FileUploader,
	extractor ai.Extractor,
	notifier StandingsNotifier,
) MatchService {
	return &matchService{
		repo:      repo,
		uploader:  uploader,
		extractor: extractor,
		notifier:  notifier,
	}
}

func (s *matchService) AddMatch(ctx context.Context, actor Actor, tournamentID, dayID string) (*models.Match, error) {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return nil, err
	}

	match := models.Match{
		ID:          uuid.NewString(),
		MatchNumber: len(day.Matches) + 1,
		Screenshots: []string{},
		Results:     []models.MatchResult{},
	}
	day.Matches = append(day.Matches, match)

	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *matchService) RemoveMatch(ctx context.Context, actor Actor, tournamentID, dayID, matchID string) error {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return err
	}

	// Матч копируется по значению: kept пишет в тот же backing array и
	// затёр бы элемент, на который указывал бы взятый по индексу указатель.
	var removed models.Match
	found := false
	kept := day.Matches[:0]
	for _, m := range day.Matches {
		if m.ID == matchID {
			removed = m
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return ErrMatchNotFound
	}
	day.Matches = kept

	if err := s.repo.Save(ctx, tournament); err != nil {
		return err
	}

	// Осиротевшие скриншоты подчищаем после коммита, ошибки не фатальны.
	for _, key := range removed.Screenshots {
		_ = s.uploader.Delete(ctx, key)
	}
	s.notify(tournament, day)
	return nil
}

func (s *matchService) AttachScreenshot(ctx context.Context, actor Actor, tournamentID, dayID, matchID string, image []byte, contentType string) (*models.Match, error) {
	if len(image) == 0 {
		return nil, ErrScreenshotsRequired
	}
	if len(image) > maxScreenshotBytes {
		return nil, ErrScreenshotTooLarge
	}
	ext, err := storage.ExtensionForContentType(contentType)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return nil, err
	}
	match := day.MatchByID(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}

	key := storage.ScreenshotKey(tournamentID, matchID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, bytes.NewReader(image)); err != nil {
		return nil, fmt.Errorf("failed to upload screenshot: %w", err)
	}
	match.Screenshots = append(match.Screenshots, key)

	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) RemoveScreenshot(ctx context.Context, actor Actor, tournamentID, dayID, matchID, key string) (*models.Match, error) {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return nil, err
	}
	match := day.MatchByID(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}

	kept := match.Screenshots[:0]
	found := false
	for _, k := range match.Screenshots {
		if k == key {
			found = true
			continue
		}
		kept = append(kept, k)
	}
	if !found {
		return nil, ErrScreenshotNotFound
	}
	match.Screenshots = kept

	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	_ = s.uploader.Delete(ctx, key)
	return match, nil
}

func (s *matchService) Analyze(ctx context.Context, actor Actor, tournamentID, dayID, matchID string) (*models.Match, error) {
	if s.extractor == nil {
		return nil, ErrExtractorUnavailable
	}

	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return nil, err
	}
	match := day.MatchByID(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}
	if len(match.Screenshots) == 0 {
		return nil, ErrMatchNoScreenshots
	}

	roster := scoring.ActiveRoster(day, tournament)
	knownNames := make([]string, len(roster))
	for i, t := range roster {
		knownNames[i] = t.Name
	}

	// Каждый скриншот разбирается независимо, строки потом склеиваются.
	var mu sync.Mutex
	var rows []models.ExtractedRow
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range match.Screenshots {
		key := key
		g.Go(func() error {
			image, contentType, err := s.uploader.Download(gctx, key)
			if err != nil {
				return fmt.Errorf("failed to download screenshot %s: %w", key, err)
			}
			extracted, err := s.extractor.ExtractMatchData(gctx, image, contentType, knownNames)
			if err != nil {
				return fmt.Errorf("failed to extract screenshot %s: %w", key, err)
			}
			mu.Lock()
			rows = append(rows, extracted...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrExtractionEmpty
	}
	resolved := scoring.Reconcile(roster, tournament.Scoring, rows)
	if len(resolved) == 0 {
		// Строки прочитаны, но ни одна не привязалась к составу. Для
		// оператора это другая ошибка, чем пустой скриншот.
		return nil, ErrExtractionUnmatched
	}

	results := make([]models.MatchResult, 0, len(resolved))
	for _, team := range roster {
		if res, ok := resolved[team.ID]; ok {
			results = append(results, res)
		}
	}
	match.Results = results
	match.IsCompleted = true

	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	s.notify(tournament, day)
	return match, nil
}

func (s *matchService) Reset(ctx context.Context, actor Actor, tournamentID, dayID, matchID string) (*models.Match, error) {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return nil, err
	}
	match := day.MatchByID(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}

	// Скриншоты остаются, лобби можно разобрать заново.
	match.Results = []models.MatchResult{}
	match.IsCompleted = false

	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	s.notify(tournament, day)
	return match, nil
}

func (s *matchService) AddPenalty(ctx context.Context, actor Actor, tournamentID, dayID string, input PenaltyInput) (*models.Penalty, error) {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return nil, err
	}

	// TeamID не сверяется с составом: санкция против удалённой команды
	// остаётся в журнале и просто не попадает в таблицу.
	penalty := models.Penalty{
		ID:     uuid.NewString(),
		TeamID: input.TeamID,
		Points: input.Points,
		Reason: input.Reason,
	}
	day.Penalties = append(day.Penalties, penalty)

	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	s.notify(tournament, day)
	return &penalty, nil
}

func (s *matchService) RemovePenalty(ctx context.Context, actor Actor, tournamentID, dayID, penaltyID string) error {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return err
	}

	kept := day.Penalties[:0]
	found := false
	for _, p := range day.Penalties {
		if p.ID == penaltyID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrPenaltyNotFound
	}
	day.Penalties = kept

	if err := s.repo.Save(ctx, tournament); err != nil {
		return err
	}
	s.notify(tournament, day)
	return nil
}

func (s *matchService) loadDay(ctx context.Context, actor Actor, tournamentID, dayID string) (*models.Tournament, *models.Day, error) {
	tournament, err := s.repo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, err
	}
	if tournament.OwnerID != actor.UserID && actor.Role != models.RoleAdmin {
		return nil, nil, ErrForbiddenOperation
	}
	day := tournament.DayByID(dayID)
	if day == nil {
		return nil, nil, ErrDayNotFound
	}
	return tournament, day, nil
}

func (s *matchService) notify(tournament *models.Tournament, day *models.Day) {
	if s.notifier == nil {
		return
	}
	roster := scoring.ActiveRoster(day, tournament)
	standings := scoring.ComputeStandings(day, roster, tournament.Scoring)
	s.notifier.NotifyStandings(tournament.ID, day.ID, standings)
}
