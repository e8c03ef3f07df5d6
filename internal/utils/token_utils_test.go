package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return issuedAt.Add(time.Minute) }

	token, claims, err := GenerateJWT("ada", "access", "secret", "issuer", issuedAt, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ParseAndValidateJWT(token, "secret", "issuer", now)
	require.NoError(t, err)
	assert.Equal(t, "ada", parsed.Subject)
	assert.Equal(t, "access", parsed.Kind)
	assert.Equal(t, claims.ID, parsed.ID)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else", now)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	_, err = ParseAndValidateJWT(token, "other", "issuer", now)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	later := func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = ParseAndValidateJWT(token, "secret", "issuer", later)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAndValidateJWT_RejectsNoneAlgorithm(t *testing.T) {
	claims := &TokenClaims{
		Kind: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ada",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(unsigned, "secret", "", time.Now)
	assert.Error(t, err)
}

func TestHashRefreshToken(t *testing.T) {
	h := HashRefreshToken("token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshToken("token"))
	assert.NotEqual(t, h, HashRefreshToken("token2"))
}

func TestBcryptVerifier(t *testing.T) {
	v := &BcryptVerifier{Cost: 4}
	hash, err := v.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)
	assert.True(t, v.Verify("correct-horse", hash))
	assert.False(t, v.Verify("wrong", hash))
	assert.False(t, v.Verify("correct-horse", "not-a-hash"))
}

func TestPosthogClientWrapper_Disabled(t *testing.T) {
	w := InitializePosthogClient("", discardLogger())
	assert.False(t, w.IsInitialized())
	w.Enqueue("id", "event", nil)
	w.Close()
}
