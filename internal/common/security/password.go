package security

import (
	"courseboard/internal/common"
	"courseboard/internal/platform/config"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword enforces the minimum-strength policy before hashing.
func HashPassword(password string) (string, error) {
	if len(password) < config.AppConfig.PasswordMinLength {
		return "", common.ErrWeakCredential
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
