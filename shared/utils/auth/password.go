package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength - registrations with shorter passwords are rejected
// before anything is hashed or stored
const MinPasswordLength = 8

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a plaintext password against a stored bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the minimum credential strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakCredential
	}
	return nil
}
