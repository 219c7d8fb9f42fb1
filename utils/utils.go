package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 14

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasSpecial = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsComplexUsername проверяет требования к имени пользователя:
// минимум одна заглавная, одна строчная буква и один спецсимвол.
func IsComplexUsername(username string) bool {
	return hasUpper.MatchString(username) &&
		hasLower.MatchString(username) &&
		hasSpecial.MatchString(username)
}
