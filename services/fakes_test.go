package services

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/repositories"
	"github.com/blackhacks/scrim-system/storage"
)

// In-memory doubles for the repository and storage interfaces.

type memUserRepo struct {
	mu    sync.Mutex
	users []models.User
}

func (r *memUserRepo) List(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.User(nil), r.users...), nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	users, _ := r.List(ctx)
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	users, _ := r.List(ctx)
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) Upsert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *memUserRepo) ReplaceAll(_ context.Context, users []models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append([]models.User(nil), users...)
	return nil
}

type memKeyRepo struct {
	mu   sync.Mutex
	keys []models.LicenseKey
}

func (r *memKeyRepo) List(_ context.Context) ([]models.LicenseKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.LicenseKey(nil), r.keys...), nil
}

func (r *memKeyRepo) GetByCode(ctx context.Context, code string) (*models.LicenseKey, error) {
	keys, _ := r.List(ctx)
	for i := range keys {
		if keys[i].Code == code {
			return &keys[i], nil
		}
	}
	return nil, repositories.ErrLicenseKeyNotFound
}

func (r *memKeyRepo) Upsert(_ context.Context, key *models.LicenseKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.keys {
		if r.keys[i].Code == key.Code {
			r.keys[i] = *key
			return nil
		}
	}
	r.keys = append(r.keys, *key)
	return nil
}

func (r *memKeyRepo) ReplaceAll(_ context.Context, keys []models.LicenseKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append([]models.LicenseKey(nil), keys...)
	return nil
}

type memTournamentRepo struct {
	mu          sync.Mutex
	tournaments []models.Tournament
}

func (r *memTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Tournament(nil), r.tournaments...), nil
}

func (r *memTournamentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Tournament, error) {
	all, _ := r.List(ctx)
	owned := make([]models.Tournament, 0)
	for _, t := range all {
		if t.OwnerID == ownerID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

func (r *memTournamentRepo) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	all, _ := r.List(ctx)
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *memTournamentRepo) Save(_ context.Context, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tournaments {
		if r.tournaments[i].ID == tournament.ID {
			r.tournaments[i] = *tournament
			return nil
		}
	}
	r.tournaments = append(r.tournaments, *tournament)
	return nil
}

func (r *memTournamentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tournaments {
		if r.tournaments[i].ID == id {
			r.tournaments = append(r.tournaments[:i], r.tournaments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

type memPresetRepo struct {
	mu      sync.Mutex
	presets []models.ScoringPreset
}

func (r *memPresetRepo) List(_ context.Context) ([]models.ScoringPreset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ScoringPreset(nil), r.presets...), nil
}

func (r *memPresetRepo) Save(_ context.Context, preset *models.ScoringPreset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.presets {
		if r.presets[i].ID == preset.ID {
			r.presets[i] = *preset
			return nil
		}
	}
	r.presets = append(r.presets, *preset)
	return nil
}

func (r *memPresetRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.presets {
		if r.presets[i].ID == id {
			r.presets = append(r.presets[:i], r.presets[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPresetNotFound
}

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newMemUploader() *memUploader {
	return &memUploader{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (u *memUploader) Upload(_ context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	u.types[key] = contentType
	return &storage.UploadResult{Key: key, Location: "mem://" + key}, nil
}

func (u *memUploader) Download(_ context.Context, key string) ([]byte, string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	data, ok := u.objects[key]
	if !ok {
		return nil, "", io.ErrUnexpectedEOF
	}
	return append([]byte(nil), data...), u.types[key], nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "mem://" + key
}

// fakeExtractor returns canned rows keyed by image payload.
type fakeExtractor struct {
	mu      sync.Mutex
	rows    map[string][]models.ExtractedRow
	calls   int
	lastCtx []string
}

func (e *fakeExtractor) ExtractMatchData(_ context.Context, image []byte, _ string, knownTeamNames []string) ([]models.ExtractedRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.lastCtx = knownTeamNames
	return e.rows[string(bytes.TrimSpace(image))], nil
}

// fakeParser returns a fixed policy, or nil to simulate unparseable text.
type fakeParser struct {
	policy *models.ScoringPolicy
}

func (p *fakeParser) ParseScoringRules(_ context.Context, _ string) (*models.ScoringPolicy, error) {
	return p.policy, nil
}

// recordingNotifier captures broadcast standings.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) NotifyStandings(tournamentID, dayID string, _ []models.TeamStanding) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, tournamentID+"/"+dayID)
}
