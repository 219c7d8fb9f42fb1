package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackhacks/scrim-system/ai"
	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/repositories"
	"github.com/blackhacks/scrim-system/scoring"
)

type TournamentService interface {
	Create(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error)
	List(ctx context.Context, actor Actor) ([]models.Tournament, error)
	Get(ctx context.Context, actor Actor, id string) (*models.Tournament, error)
	Rename(ctx context.Context, actor Actor, id, name string) (*models.Tournament, error)
	Delete(ctx context.Context, actor Actor, id string) error

	// UpdateTeams заменяет глобальный состав, сохраняя ID команд с
	// неизменившимися именами, чтобы не потерять накопленные результаты.
	UpdateTeams(ctx context.Context, actor Actor, id string, rawLines []string) (*models.Tournament, error)
	UpdateScoring(ctx context.Context, actor Actor, id string, policy models.ScoringPolicy) (*models.Tournament, error)
	// UpdateScoringFromText разбирает свободный текст правил через AI.
	// Если текст не распознан, текущая политика остаётся без изменений.
	UpdateScoringFromText(ctx context.Context, actor Actor, id, rulesText string) (*models.Tournament, bool, error)

	AddDay(ctx context.Context, actor Actor, id string, date *string) (*models.Tournament, error)
	UpdateDayTeams(ctx context.Context, actor Actor, id, dayID string, rawLines []string) (*models.Tournament, error)
}

// Actor identifies the caller for ownership checks.
type Actor struct {
	UserID string
	Role   models.UserRole
}

type CreateTournamentInput struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	StartDate string   `json:"start_date,omitempty"` // ISO calendar date
	EndDate   string   `json:"end_date,omitempty"`
	TeamLines []string `json:"team_lines,omitempty"`
	// Scoring задаёт стартовую политику очков; nil означает стандартную таблицу.
	Scoring *models.ScoringPolicy `json:"scoring,omitempty"`
}

type tournamentService struct {
	repo   repositories.TournamentRepository
	parser ai.RuleParser
}

func NewTournamentService(repo repositories.TournamentRepository, parser ai.RuleParser) TournamentService {
	return &tournamentService{repo: repo, parser: parser}
}

func (s *tournamentService) Create(ctx context.Context, actor Actor, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrEventNameRequired
	}
	eventType := models.EventType(input.Type)
	if eventType != models.EventScrim && eventType != models.EventTournament {
		return nil, ErrInvalidEventType
	}

	policy := models.DefaultScoringPolicy()
	if input.Scoring != nil {
		policy = *input.Scoring
	}

	tournament := &models.Tournament{
		ID:      uuid.NewString(),
		OwnerID: actor.UserID,
		Name:    input.Name,
		Type:    eventType,
		Teams:   scoring.ImportRoster(input.TeamLines),
		Scoring: policy,
		Days:    []models.Day{},
	}

	// У турнира расписание фиксировано: по дню на каждую дату диапазона.
	// Скрим начинается без дней, их добавляют по ходу.
	if eventType == models.EventTournament {
		days, err := generateDays(input.StartDate, input.EndDate)
		if err != nil {
			return nil, err
		}
		tournament.Days = days
	}

	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func generateDays(startDate, endDate string) ([]models.Day, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", ErrValidationFailed, startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", ErrValidationFailed, endDate)
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	days := []models.Day{}
	for d, n := start, 1; !d.After(end); d, n = d.AddDate(0, 0, 1), n+1 {
		date := d.Format("2006-01-02")
		days = append(days, models.Day{
			ID:        uuid.NewString(),
			DayNumber: n,
			Date:      &date,
			Matches:   []models.Match{},
			Penalties: []models.Penalty{},
		})
	}
	return days, nil
}

func (s *tournamentService) List(ctx context.Context, actor Actor) ([]models.Tournament, error) {
	if actor.Role == models.RoleAdmin {
		return s.repo.List(ctx)
	}
	return s.repo.ListByOwner(ctx, actor.UserID)
}

func (s *tournamentService) Get(ctx context.Context, actor Actor, id string) (*models.Tournament, error) {
	return s.authorized(ctx, actor, id)
}

func (s *tournamentService) Rename(ctx context.Context, actor Actor, id, name string) (*models.Tournament, error) {
	if name == "" {
		return nil, ErrEventNameRequired
	}
	tournament, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	tournament.Name = name
	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.authorized(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *tournamentService) UpdateTeams(ctx context.Context, actor Actor, id string, rawLines []string) (*models.Tournament, error) {
	tournament, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	tournament.Teams = scoring.MergeRoster(tournament.Teams, rawLines)
	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) UpdateScoring(ctx context.Context, actor Actor, id string, policy models.ScoringPolicy) (*models.Tournament, error) {
	tournament, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	tournament.Scoring = policy
	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) UpdateScoringFromText(ctx context.Context, actor Actor, id, rulesText string) (*models.Tournament, bool, error) {
	tournament, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, false, err
	}
	if s.parser == nil {
		return nil, false, ErrExtractorUnavailable
	}

	policy, err := s.parser.ParseScoringRules(ctx, rulesText)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrPolicyParseFailed, err)
	}
	if policy == nil {
		// Текст не распознан, политика остаётся прежней.
		return tournament, false, nil
	}

	tournament.Scoring = *policy
	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, false, err
	}
	return tournament, true, nil
}

func (s *tournamentService) AddDay(ctx context.Context, actor Actor, id string, date *string) (*models.Tournament, error) {
	tournament, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	tournament.Days = append(tournament.Days, models.Day{
		ID:        uuid.NewString(),
		DayNumber: len(tournament.Days) + 1,
		Date:      date,
		Matches:   []models.Match{},
		Penalties: []models.Penalty{},
	})
	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) UpdateDayTeams(ctx context.Context, actor Actor, id, dayID string, rawLines []string) (*models.Tournament, error) {
	tournament, err := s.authorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	day := tournament.DayByID(dayID)
	if day == nil {
		return nil, ErrDayNotFound
	}
	day.Teams = scoring.MergeRoster(day.Teams, rawLines)
	if err := s.repo.Save(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

// authorized загружает турнир и проверяет, что актор владелец или админ.
func (s *tournamentService) authorized(ctx context.Context, actor Actor, id string) (*models.Tournament, error) {
	tournament, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.OwnerID != actor.UserID && actor.Role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}
	return tournament, nil
}
