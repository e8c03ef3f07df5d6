package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken returns the hex SHA-256 of a raw refresh token. The used
// token set is keyed by this value instead of the token itself.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
