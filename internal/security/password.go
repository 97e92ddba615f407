// Package security holds the password hashing primitives used for
// local accounts.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when the configuration does not set one.
const DefaultBcryptCost = 12

// HashPassword hashes a clear text password with bcrypt at the given
// cost. Costs below the bcrypt minimum fall back to DefaultBcryptCost.
func HashPassword(clear string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(clear), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the clear text password matches the
// stored bcrypt hash.
func VerifyPassword(clear, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(clear)) == nil
}
