package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrUsernameTooSimple   = errors.New("username must contain an uppercase letter, a lowercase letter and a special character")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUsernameConflict    = errors.New("username is already taken")
	ErrEventNameRequired   = errors.New("event name is required")
	ErrInvalidEventType    = errors.New("invalid event type")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrScreenshotTooLarge  = errors.New("screenshot exceeds the maximum allowed size")
	ErrUnsupportedImage    = errors.New("unsupported image content type")
	ErrScreenshotsRequired = errors.New("at least one screenshot is required")

	// Ошибки лицензий
	ErrLicenseKeyInvalid  = errors.New("license key is malformed or has a bad checksum")
	ErrLicenseKeyUsed     = errors.New("license key has already been used")
	ErrLicenseKeyRevoked  = errors.New("license key has been revoked")
	ErrLicenseExpired     = errors.New("license has expired")
	ErrLicenseKeyConflict = errors.New("license key already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки разбора скриншотов и правил
	ErrExtractionEmpty      = errors.New("no result rows could be read from the screenshots")
	ErrExtractionUnmatched  = errors.New("result rows were read but none matched the roster")
	ErrPolicyParseFailed    = errors.New("scoring rules text could not be parsed")
	ErrMatchNoScreenshots   = errors.New("match has no screenshots to analyze")
	ErrExtractorUnavailable = errors.New("screenshot extractor is not configured")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrDayNotFound        = errors.New("day not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPenaltyNotFound    = errors.New("penalty not found")
	ErrPresetNotFound     = errors.New("scoring preset not found")
	ErrScreenshotNotFound = errors.New("screenshot not found")
)
