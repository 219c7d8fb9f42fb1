package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/blackhacks/scrim-system/models"
	"github.com/blackhacks/scrim-system/repositories"
	"github.com/blackhacks/scrim-system/utils"
)

const (
	minPasswordLength = 6
	tokenTTL          = 24 * time.Hour
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
	// RenewLicense применяет новый ключ к уже существующему аккаунту.
	RenewLicense(ctx context.Context, userID, licenseKey string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// EnsureAdmin создаёт администратора при первом запуске, если задан в конфиге.
	EnsureAdmin(ctx context.Context, username, password string) error
}

type RegisterInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	LicenseKey string `json:"license_key"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authService struct {
	userRepo  repositories.UserRepository
	licenses  LicenseService
	jwtSecret []byte
}

func NewAuthService(userRepo repositories.UserRepository, licenses LicenseService, jwtSecret []byte) AuthService {
	return &authService{
		userRepo:  userRepo,
		licenses:  licenses,
		jwtSecret: jwtSecret,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	if !utils.IsComplexUsername(input.Username) {
		return nil, "", ErrUsernameTooSimple
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	_, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, "", ErrUsernameConflict
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	licenseKey := NormalizeKeyCode(input.LicenseKey)
	_, expiry, err := s.licenses.ClaimKey(ctx, licenseKey, user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	user.LicenseKey = licenseKey
	user.LicenseExpiry = expiry

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, "", fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if user.Role != models.RoleAdmin && user.LicenseExpired(time.Now().UTC()) {
		return nil, "", ErrLicenseExpired
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) RenewLicense(ctx context.Context, userID, licenseKey string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	licenseKey = NormalizeKeyCode(licenseKey)
	_, expiry, err := s.licenses.ClaimKey(ctx, licenseKey, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	user.LicenseKey = licenseKey
	user.LicenseExpiry = expiry

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	admin := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	return s.userRepo.Upsert(ctx, admin)
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
