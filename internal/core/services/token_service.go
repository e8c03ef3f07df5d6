package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/utils"
)

// TokenConfig holds the secrets and lifetimes used by the token service.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// tokenService issues stateless signed tokens and enforces single use of
// refresh tokens through a UsedTokenRepository.
type tokenService struct {
	BaseService
	cfg      TokenConfig
	usedRepo portsrepo.UsedTokenRepository
	now      func() time.Time
}

// TokenServiceOption is a functional option for configuring the token service.
type TokenServiceOption func(*tokenService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *tokenService) {
		s.now = now
	}
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg TokenConfig, usedRepo portsrepo.UsedTokenRepository, opts ...TokenServiceOption) portssvc.TokenSvcFacade {
	s := &tokenService{
		cfg:      cfg,
		usedRepo: usedRepo,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *tokenService) secretFor(kind domain.TokenKind) (string, error) {
	switch kind {
	case domain.AccessToken:
		return s.cfg.AccessSecret, nil
	case domain.RefreshToken:
		return s.cfg.RefreshSecret, nil
	}
	return "", fmt.Errorf("%w: unknown token kind %q", apperrors.ErrValidation, kind)
}

// Issue signs a token of the given kind for subject, valid for ttl.
func (s *tokenService) Issue(subject string, kind domain.TokenKind, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: token subject is required", apperrors.ErrValidation)
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("%w: token ttl must be positive", apperrors.ErrValidation)
	}
	secret, err := s.secretFor(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	token, claims, err := utils.GenerateJWT(subject, string(kind), secret, s.cfg.Issuer, s.now(), ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}

// Verify checks signature, algorithm, issuer, kind and expiry. The cause is
// never surfaced: callers only ever see apperrors.ErrInvalidToken.
func (s *tokenService) Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	secret, err := s.secretFor(kind)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	claims, err := utils.ParseAndValidateJWT(token, secret, s.cfg.Issuer, s.now)
	if err != nil {
		slog.Debug("token verification failed", slog.String("kind", string(kind)), slog.String("error", err.Error()))
		return nil, apperrors.ErrInvalidToken
	}
	if claims.Kind != string(kind) {
		return nil, apperrors.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		TokenID: claims.ID,
		Subject: claims.Subject,
		Kind:    kind,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// IssuePair issues a fresh access token and refresh token for subject.
func (s *tokenService) IssuePair(subject string) (*domain.TokenPair, error) {
	access, accessExp, err := s.Issue(subject, domain.AccessToken, s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, refreshExp, err := s.Issue(subject, domain.RefreshToken, s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:           access,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

// Renew consumes refreshToken and mints a new pair for the same subject.
// MarkUsed is an atomic insert-if-absent, so of any number of concurrent
// renewals with the same token exactly one gets past it.
func (s *tokenService) Renew(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.Verify(refreshToken, domain.RefreshToken)
	if err != nil {
		return nil, err
	}

	alreadyUsed, err := s.usedRepo.MarkUsed(ctx, domain.UsedToken{
		TokenHash: utils.HashRefreshToken(refreshToken),
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt,
		UsedAt:    s.now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record refresh token use", slog.String("subject", claims.Subject))
		return nil, err
	}
	if alreadyUsed {
		s.GetLogger(ctx).Warn("Refresh token replay rejected",
			slog.String("subject", claims.Subject),
			slog.String("token_id", claims.TokenID))
		return nil, apperrors.ErrTokenAlreadyUsed
	}

	pair, err := s.IssuePair(claims.Subject)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Refresh token rotated", slog.String("subject", claims.Subject))
	return pair, nil
}
