package models

import "time"

// UserRole представляет роли пользователя.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"`
	Role          UserRole   `json:"role"`
	LicenseKey    string     `json:"license_key,omitempty"`
	LicenseExpiry *time.Time `json:"license_expiry,omitempty"` // nil означает бессрочную лицензию
	CreatedAt     time.Time  `json:"created_at"`
}

// LicenseExpired reports whether the user's license has lapsed.
// A nil expiry never expires.
func (u *User) LicenseExpired(now time.Time) bool {
	return u.LicenseExpiry != nil && u.LicenseExpiry.Before(now)
}
