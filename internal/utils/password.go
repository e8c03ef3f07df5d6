package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier hashes and verifies passwords with bcrypt.
type BcryptVerifier struct {
	Cost int
}

// NewBcryptVerifier returns a verifier using bcrypt.DefaultCost.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{Cost: bcrypt.DefaultCost}
}

func (v *BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

func (v *BcryptVerifier) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
