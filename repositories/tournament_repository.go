package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/blackhacks/scrim-system/models"
)

type TournamentRepository interface {
	List(ctx context.Context) ([]models.Tournament, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	// Save persists the whole tournament record. Last write wins at
	// whole-record granularity, построчных обновлений нет.
	Save(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	data, err := readBlob(ctx, r.db, CollectionTournaments)
	if err != nil {
		return nil, err
	}
	var tournaments []models.Tournament
	if err := json.Unmarshal(data, &tournaments); err != nil {
		return nil, fmt.Errorf("failed to decode tournaments collection: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Tournament, error) {
	tournaments, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.Tournament, 0)
	for _, t := range tournaments {
		if t.OwnerID == ownerID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	tournaments, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		if tournaments[i].ID == id {
			return &tournaments[i], nil
		}
	}
	return nil, ErrTournamentNotFound
}

func (r *postgresTournamentRepository) Save(ctx context.Context, tournament *models.Tournament) error {
	tournaments, err := r.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range tournaments {
		if tournaments[i].ID == tournament.ID {
			tournaments[i] = *tournament
			replaced = true
			break
		}
	}
	if !replaced {
		tournaments = append(tournaments, *tournament)
	}
	return r.replaceAll(ctx, tournaments)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	tournaments, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := tournaments[:0]
	found := false
	for _, t := range tournaments {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return ErrTournamentNotFound
	}
	return r.replaceAll(ctx, kept)
}

func (r *postgresTournamentRepository) replaceAll(ctx context.Context, tournaments []models.Tournament) error {
	if tournaments == nil {
		tournaments = []models.Tournament{}
	}
	data, err := json.Marshal(tournaments)
	if err != nil {
		return fmt.Errorf("failed to encode tournaments collection: %w", err)
	}
	return writeBlob(ctx, r.db, CollectionTournaments, data)
}
