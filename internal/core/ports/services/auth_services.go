package services

import (
	"context"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// Issue signs a token of the given kind for subject, valid for ttl.
	Issue(subject string, kind domain.TokenKind, ttl time.Duration) (string, time.Time, error)

	// Verify checks signature, issuer and expiry. Every failure is apperrors.ErrInvalidToken.
	Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error)

	// IssuePair issues a fresh access token and refresh token for subject.
	IssuePair(subject string) (*domain.TokenPair, error)

	// Renew consumes a refresh token exactly once and returns a new pair.
	// Fails with apperrors.ErrInvalidToken or apperrors.ErrTokenAlreadyUsed.
	Renew(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}
