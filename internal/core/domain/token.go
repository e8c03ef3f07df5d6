package domain

import "time"

// TokenKind distinguishes access tokens from refresh tokens. Each kind is
// signed with its own secret, so one can never be accepted as the other.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenClaims is the verified content of a signed token.
type TokenClaims struct {
	TokenID   string
	Subject   string // username
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is what login and renewal hand back to the client.
type TokenPair struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

// UsedToken is an entry of the used refresh token set.
type UsedToken struct {
	TokenHash string
	Subject   string
	ExpiresAt time.Time
	UsedAt    time.Time
}
