package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/blackhacks/scrim-system/models"
)

type PresetRepository interface {
	List(ctx context.Context) ([]models.ScoringPreset, error)
	Save(ctx context.Context, preset *models.ScoringPreset) error
	Delete(ctx context.Context, id string) error
}

type postgresPresetRepository struct {
	db *sql.DB
}

func NewPostgresPresetRepository(db *sql.DB) PresetRepository {
	return &postgresPresetRepository{db: db}
}

func (r *postgresPresetRepository) List(ctx context.Context) ([]models.ScoringPreset, error) {
	data, err := readBlob(ctx, r.db, CollectionPresets)
	if err != nil {
		return nil, err
	}
	var presets []models.ScoringPreset
	if err := json.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to decode scoring presets collection: %w", err)
	}
	return presets, nil
}

func (r *postgresPresetRepository) Save(ctx context.Context, preset *models.ScoringPreset) error {
	presets, err := r.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range presets {
		if presets[i].ID == preset.ID {
			presets[i] = *preset
			replaced = true
			break
		}
	}
	if !replaced {
		presets = append(presets, *preset)
	}
	return r.replaceAll(ctx, presets)
}

func (r *postgresPresetRepository) Delete(ctx context.Context, id string) error {
	presets, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := presets[:0]
	found := false
	for _, p := range presets {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrPresetNotFound
	}
	return r.replaceAll(ctx, kept)
}

func (r *postgresPresetRepository) replaceAll(ctx context.Context, presets []models.ScoringPreset) error {
	if presets == nil {
		presets = []models.ScoringPreset{}
	}
	data, err := json.Marshal(presets)
	if err != nil {
		return fmt.Errorf("failed to encode scoring presets collection: %w", err)
	}
	return writeBlob(ctx, r.db, CollectionPresets, data)
}
