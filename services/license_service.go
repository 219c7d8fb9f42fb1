package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/repositories"
)

const (
	licensePrefix = "BH"
	licenseSalt   = "BLACKHACKS_SECURE_2025"

	keyRandAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keyRandLength   = 4
)

// keyCodeMap сопоставляет сегмент типа в ключе с длительностью лицензии.
var keyCodeMap = map[string]models.LicenseDuration{
	"1H": models.Duration1H,
	"2H": models.Duration2H,
	"3H": models.Duration3H,
	"1D": models.Duration1D,
	"3D": models.Duration3D,
	"7D": models.Duration7D,
	"14": models.Duration14D,
	"21": models.Duration21D,
	"1M": models.Duration1M,
	"3M": models.Duration3M,
	"6M": models.Duration6M,
	"1Y": models.Duration1Y,
	"IN": models.DurationInfinity,
}

// licenseDurations задаёт срок действия для каждой длительности.
// DurationInfinity отсутствует намеренно: бессрочная лицензия не истекает.
var licenseDurations = map[models.LicenseDuration]time.Duration{
	models.Duration1H:  time.Hour,
	models.Duration2H:  2 * time.Hour,
	models.Duration3H:  3 * time.Hour,
	models.Duration1D:  24 * time.Hour,
	models.Duration3D:  3 * 24 * time.Hour,
	models.Duration7D:  7 * 24 * time.Hour,
	models.Duration14D: 14 * 24 * time.Hour,
	models.Duration21D: 21 * 24 * time.Hour,
	models.Duration1M:  30 * 24 * time.Hour,
	models.Duration3M:  90 * 24 * time.Hour,
	models.Duration6M:  180 * 24 * time.Hour,
	models.Duration1Y:  365 * 24 * time.Hour,
}

type LicenseService interface {
	GenerateKeys(ctx context.Context, typeCode string, count int) ([]models.LicenseKey, error)
	ListKeys(ctx context.Context) ([]models.LicenseKey, error)
	RevokeKey(ctx context.Context, code string) error
	DeleteKey(ctx context.Context, code string) error
	// ClaimKey помечает ключ использованным и возвращает срок лицензии.
	// nil expiry означает бессрочную лицензию.
	ClaimKey(ctx context.Context, code, userID, username string) (models.LicenseDuration, *time.Time, error)
}

type licenseService struct {
	keyRepo repositories.LicenseKeyRepository
}

func NewLicenseService(keyRepo repositories.LicenseKeyRepository) LicenseService {
	return &licenseService{keyRepo: keyRepo}
}

// KeyChecksum computes the 4-character checksum segment for a key base
// such as "BH-7D-X9K2". The hash runs in int32 arithmetic over the base
// concatenated with the signing salt, then renders as uppercase base36.
func KeyChecksum(base string) string {
	var h int32
	for _, c := range base + licenseSalt {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	s := strings.ToUpper(strconv.FormatInt(v, 36))
	if len(s) > 4 {
		s = s[:4]
	}
	return s
}

// GenerateSmartKey mints one self-verifying key of the given type code,
// for example "BH-7D-X9K2-1A3F".
func GenerateSmartKey(typeCode string) (string, error) {
	if _, ok := keyCodeMap[typeCode]; !ok {
		return "", fmt.Errorf("%w: unknown type code %q", ErrLicenseKeyInvalid, typeCode)
	}
	buf := make([]byte, keyRandLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = keyRandAlphabet[int(b)%len(keyRandAlphabet)]
	}
	base := fmt.Sprintf("%s-%s-%s", licensePrefix, typeCode, string(buf))
	return base + "-" + KeyChecksum(base), nil
}

// NormalizeKeyCode canonicalizes an operator-pasted key: surrounding
// whitespace is stripped and the code is uppercased.
func NormalizeKeyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// VerifySmartKey validates the format and checksum of a key offline and
// returns the license duration it encodes.
func VerifySmartKey(code string) (models.LicenseDuration, bool) {
	parts := strings.Split(NormalizeKeyCode(code), "-")
	if len(parts) != 4 || parts[0] != licensePrefix {
		return "", false
	}
	duration, ok := keyCodeMap[parts[1]]
	if !ok {
		return "", false
	}
	base := strings.Join(parts[:3], "-")
	if KeyChecksum(base) != parts[3] {
		return "", false
	}
	return duration, true
}

func (s *licenseService) GenerateKeys(ctx context.Context, typeCode string, count int) ([]models.LicenseKey, error) {
	if count < 1 {
		count = 1
	}
	duration, ok := keyCodeMap[typeCode]
	if !ok {
		return nil, fmt.Errorf("%w: unknown type code %q", ErrLicenseKeyInvalid, typeCode)
	}

	keys, err := s.keyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		existing[k.Code] = struct{}{}
	}

	now := time.Now().UTC()
	generated := make([]models.LicenseKey, 0, count)
	for len(generated) < count {
		code, err := GenerateSmartKey(typeCode)
		if err != nil {
			return nil, err
		}
		if _, taken := existing[code]; taken {
			// Коллизия случайного сегмента, пробуем ещё раз.
			continue
		}
		existing[code] = struct{}{}
		key := models.LicenseKey{
			Code:          code,
			DurationLabel: duration,
			CreatedAt:     now,
		}
		generated = append(generated, key)
		keys = append(keys, key)
	}

	if err := s.keyRepo.ReplaceAll(ctx, keys); err != nil {
		return nil, err
	}
	return generated, nil
}

func (s *licenseService) ListKeys(ctx context.Context) ([]models.LicenseKey, error) {
	return s.keyRepo.List(ctx)
}

func (s *licenseService) RevokeKey(ctx context.Context, code string) error {
	key, err := s.keyRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrLicenseKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	key.IsRevoked = true
	return s.keyRepo.Upsert(ctx, key)
}

func (s *licenseService) DeleteKey(ctx context.Context, code string) error {
	keys, err := s.keyRepo.List(ctx)
	if err != nil {
		return err
	}
	kept := keys[:0]
	found := false
	for _, k := range keys {
		if k.Code == code {
			found = true
			continue
		}
		kept = append(kept, k)
	}
	if !found {
		return ErrNotFound
	}
	return s.keyRepo.ReplaceAll(ctx, kept)
}

func (s *licenseService) ClaimKey(ctx context.Context, code, userID, username string) (models.LicenseDuration, *time.Time, error) {
	code = NormalizeKeyCode(code)
	duration, ok := VerifySmartKey(code)
	if !ok {
		return "", nil, ErrLicenseKeyInvalid
	}

	key, err := s.keyRepo.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, repositories.ErrLicenseKeyNotFound) {
			return "", nil, err
		}
		// Ключ верифицируется офлайн по чексумме, поэтому запись может
		// отсутствовать. Создаём её при первом использовании.
		key = &models.LicenseKey{
			Code:          code,
			DurationLabel: duration,
			CreatedAt:     time.Now().UTC(),
		}
	}

	if key.IsRevoked {
		return "", nil, ErrLicenseKeyRevoked
	}
	if key.IsUsed {
		return "", nil, ErrLicenseKeyUsed
	}

	key.IsUsed = true
	key.UsedByUserID = userID
	key.UsedByUsername = username
	if err := s.keyRepo.Upsert(ctx, key); err != nil {
		return "", nil, err
	}

	var expiry *time.Time
	if d, limited := licenseDurations[key.DurationLabel]; limited {
		t := time.Now().UTC().Add(d)
		expiry = &t
	}
	return key.DurationLabel, expiry, nil
}
