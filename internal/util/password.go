package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 8

// HashPassword returns the bcrypt hash of a plaintext password. The
// config file stores this hash, never the plaintext.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
