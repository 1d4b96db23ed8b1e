// Package crypto implements server-side password hashing and verification.
package crypto

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor for new hashes. Verification reads the cost
// (and salt) embedded in the stored digest, so raising this later only
// affects newly created accounts.
const bcryptCost = bcrypt.DefaultCost

// HashPassword returns a bcrypt digest of password. The salt is generated
// internally and embedded in the digest.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether password matches the stored bcrypt digest.
// A malformed digest fails closed: it verifies as false, never panics.
func VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
