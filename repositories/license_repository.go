package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/blackhacks/scrim-system/models"
)

type LicenseKeyRepository interface {
	List(ctx context.Context) ([]models.LicenseKey, error)
	GetByCode(ctx context.Context, code string) (*models.LicenseKey, error)
	// Upsert inserts the key or replaces the record with the same code.
	Upsert(ctx context.Context, key *models.LicenseKey) error
	ReplaceAll(ctx context.Context, keys []models.LicenseKey) error
}

type postgresLicenseKeyRepository struct {
	db *sql.DB
}

func NewPostgresLicenseKeyRepository(db *sql.DB) LicenseKeyRepository {
	return &postgresLicenseKeyRepository{db: db}
}

func (r *postgresLicenseKeyRepository) List(ctx context.Context) ([]models.LicenseKey, error) {
	data, err := readBlob(ctx, r.db, CollectionLicenseKeys)
	if err != nil {
		return nil, err
	}
	var keys []models.LicenseKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode license keys collection: %w", err)
	}
	return keys, nil
}

func (r *postgresLicenseKeyRepository) GetByCode(ctx context.Context, code string) (*models.LicenseKey, error) {
	keys, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].Code == code {
			return &keys[i], nil
		}
	}
	return nil, ErrLicenseKeyNotFound
}

func (r *postgresLicenseKeyRepository) Upsert(ctx context.Context, key *models.LicenseKey) error {
	keys, err := r.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range keys {
		if keys[i].Code == key.Code {
			keys[i] = *key
			replaced = true
			break
		}
	}
	if !replaced {
		keys = append(keys, *key)
	}
	return r.ReplaceAll(ctx, keys)
}

func (r *postgresLicenseKeyRepository) ReplaceAll(ctx context.Context, keys []models.LicenseKey) error {
	if keys == nil {
		keys = []models.LicenseKey{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to encode license keys collection: %w", err)
	}
	return writeBlob(ctx, r.db, CollectionLicenseKeys, data)
}
