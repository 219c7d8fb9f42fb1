package services

import (
	"context"
	"errors"

	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/repositories"
	"github.com/blackhacks/scrim-system/scoring"
)

type StandingsService interface {
	// DayStandings агрегирует все лобби и санкции дня в таблицу.
	DayStandings(ctx context.Context, actor Actor, tournamentID, dayID string) ([]models.TeamStanding, error)
	// ExportRows возвращает плоские строки для CSV/XLSX отчётов вместе
	// с названием турнира и номером дня для имени файла.
	ExportRows(ctx context.Context, actor Actor, tournamentID, dayID string) (string, int, []models.StandingRow, error)
}

type standingsService struct {
	repo repositories.TournamentRepository
}

func NewStandingsService(repo repositories.TournamentRepository) StandingsService {
	return &standingsService{repo: repo}
}

func (s *standingsService) DayStandings(ctx context.Context, actor Actor, tournamentID, dayID string) ([]models.TeamStanding, error) {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return nil, err
	}
	roster := scoring.ActiveRoster(day, tournament)
	return scoring.ComputeStandings(day, roster, tournament.Scoring), nil
}

func (s *standingsService) ExportRows(ctx context.Context, actor Actor, tournamentID, dayID string) (string, int, []models.StandingRow, error) {
	tournament, day, err := s.loadDay(ctx, actor, tournamentID, dayID)
	if err != nil {
		return "", 0, nil, err
	}
	roster := scoring.ActiveRoster(day, tournament)
	standings := scoring.ComputeStandings(day, roster, tournament.Scoring)
	return tournament.Name, day.DayNumber, scoring.ExportRows(standings), nil
}

func (s *standingsService) loadDay(ctx context.Context, actor Actor, tournamentID, dayID string) (*models.Tournament, *models.Day, error) {
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
