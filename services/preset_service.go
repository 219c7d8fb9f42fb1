package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/repositories"
)

type PresetService interface {
	List(ctx context.Context) ([]models.ScoringPreset, error)
	Save(ctx context.Context, input PresetInput) (*models.ScoringPreset, error)
	Delete(ctx context.Context, id string) error
}

type PresetInput struct {
	ID     string               `json:"id,omitempty"`
	Name   string               `json:"name"`
	Policy models.ScoringPolicy `json:"policy"`
}

type presetService struct {
	repo repositories.PresetRepository
}

func NewPresetService(repo repositories.PresetRepository) PresetService {
	return &presetService{repo: repo}
}

func (s *presetService) List(ctx context.Context) ([]models.ScoringPreset, error) {
	presets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if presets == nil {
		presets = []models.ScoringPreset{}
	}
	return presets, nil
}

func (s *presetService) Save(ctx context.Context, input PresetInput) (*models.ScoringPreset, error) {
	if input.Name == "" {
		return nil, ErrValidationFailed
	}
	preset := &models.ScoringPreset{
		ID:     input.ID,
		Name:   input.Name,
		Policy: input.Policy,
	}
	if preset.ID == "" {
		preset.ID = uuid.NewString()
	}
	if err := s.repo.Save(ctx, preset); err != nil {
		return nil, err
	}
	return preset, nil
}

func (s *presetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPresetNotFound) {
			return ErrPresetNotFound
		}
		return err
	}
	return nil
}
