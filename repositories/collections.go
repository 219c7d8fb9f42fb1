package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Collection names. Каждая коллекция хранится одним JSON-блобом:
// читается целиком, перезаписывается целиком при любой мутации.
const (
	CollectionUsers       = "users"
	CollectionLicenseKeys = "license_keys"
	CollectionTournaments = "tournaments"
	CollectionPresets     = "scoring_presets"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLicenseKeyNotFound = errors.New("license key not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPresetNotFound     = errors.New("scoring preset not found")
)

func readBlob(ctx context.Context, db *sql.DB, name string) ([]byte, error) {
	var data []byte
	err := db.QueryRowContext(ctx, `SELECT data FROM collections WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		// Коллекция ещё не создавалась, считаем её пустым списком.
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %q: %w", name, err)
	}
	return data, nil
}

func writeBlob(ctx context.Context, db *sql.DB, name string, data []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		name, data,
	)
	if err != nil {
		return fmt.Errorf("failed to write collection %q: %w", name, err)
	}
	return nil
}
