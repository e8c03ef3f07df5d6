package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/core/services"
	"github.com/SscSPs/knowledge_hub/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock UsedTokenRepository ---
type MockUsedTokenRepository struct {
	mock.Mock
}

func (m *MockUsedTokenRepository) MarkUsed(ctx context.Context, token domain.UsedToken) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsedTokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testTokenConfig() services.TokenConfig {
	return services.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		Issuer:        "knowledge-hub-test",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	}
}

type TokenServiceTestSuite struct {
	suite.Suite
	clock    *fakeClock
	usedRepo *memory.UsedTokenRepository
	service  portssvc.TokenSvcFacade
	ctx      context.Context
}

func (s *TokenServiceTestSuite) SetupTest() {
	s.clock = &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s.usedRepo = memory.NewUsedTokenRepository()
	s.service = services.NewTokenService(testTokenConfig(), s.usedRepo, services.WithClock(s.clock.Now))
	s.ctx = context.Background()
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func (s *TokenServiceTestSuite) TestIssueAndVerify() {
	token, expiresAt, err := s.service.Issue("alice", domain.AccessToken, time.Hour)
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Equal(s.clock.Now().Add(time.Hour), expiresAt)

	claims, err := s.service.Verify(token, domain.AccessToken)
	s.Require().NoError(err)
	s.Equal("alice", claims.Subject)
	s.Equal(domain.AccessToken, claims.Kind)
	s.NotEmpty(claims.TokenID)
	s.Equal(expiresAt, claims.ExpiresAt)
}

func (s *TokenServiceTestSuite) TestIssue_Validation() {
	_, _, err := s.service.Issue("", domain.AccessToken, time.Hour)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = s.service.Issue("alice", domain.AccessToken, 0)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = s.service.Issue("alice", domain.TokenKind("session"), time.Hour)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TokenServiceTestSuite) TestIssue_TokensAreDistinct() {
	first, _, err := s.service.Issue("alice", domain.AccessToken, time.Hour)
	s.Require().NoError(err)
	second, _, err := s.service.Issue("alice", domain.AccessToken, time.Hour)
	s.Require().NoError(err)
	s.NotEqual(first, second)
}

func (s *TokenServiceTestSuite) TestVerify_Expired() {
	token, _, err := s.service.Issue("alice", domain.AccessToken, time.Hour)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour + time.Second)

	_, err = s.service.Verify(token, domain.AccessToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestVerify_Tampered() {
	token, _, err := s.service.Issue("alice", domain.AccessToken, time.Hour)
	s.Require().NoError(err)

	other, _, err := s.service.Issue("mallory", domain.AccessToken, time.Hour)
	s.Require().NoError(err)

	// mallory's payload under alice's signature
	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	s.Require().Len(parts, 3)
	s.Require().Len(otherParts, 3)
	tampered := strings.Join([]string{parts[0], otherParts[1], parts[2]}, ".")

	_, err = s.service.Verify(tampered, domain.AccessToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)

	_, err = s.service.Verify("not-a-token", domain.AccessToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestVerify_WrongSecret() {
	cfg := testTokenConfig()
	cfg.AccessSecret = "some-other-secret"
	other := services.NewTokenService(cfg, s.usedRepo, services.WithClock(s.clock.Now))

	token, _, err := other.Issue("alice", domain.AccessToken, time.Hour)
	s.Require().NoError(err)

	_, err = s.service.Verify(token, domain.AccessToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestVerify_KindMismatch() {
	pair, err := s.service.IssuePair("alice")
	s.Require().NoError(err)

	_, err = s.service.Verify(pair.AccessToken, domain.RefreshToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)

	_, err = s.service.Verify(pair.RefreshToken, domain.AccessToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestIssuePair() {
	pair, err := s.service.IssuePair("alice")
	s.Require().NoError(err)
	s.NotEqual(pair.AccessToken, pair.RefreshToken)
	s.Equal(s.clock.Now().Add(time.Hour), pair.AccessTokenExpiresAt)
	s.Equal(s.clock.Now().Add(24*time.Hour), pair.RefreshTokenExpiresAt)
}

func (s *TokenServiceTestSuite) TestRenew_SingleUse() {
	pair, err := s.service.IssuePair("alice")
	s.Require().NoError(err)

	renewed, err := s.service.Renew(s.ctx, pair.RefreshToken)
	s.Require().NoError(err)
	s.NotEqual(pair.RefreshToken, renewed.RefreshToken)

	claims, err := s.service.Verify(renewed.AccessToken, domain.AccessToken)
	s.Require().NoError(err)
	s.Equal("alice", claims.Subject)

	_, err = s.service.Renew(s.ctx, pair.RefreshToken)
	s.ErrorIs(err, apperrors.ErrTokenAlreadyUsed)

	// the freshly issued refresh token is still good
	_, err = s.service.Renew(s.ctx, renewed.RefreshToken)
	s.NoError(err)
	s.Equal(2, s.usedRepo.Len())
}

func (s *TokenServiceTestSuite) TestRenew_RejectsAccessToken() {
	pair, err := s.service.IssuePair("alice")
	s.Require().NoError(err)

	_, err = s.service.Renew(s.ctx, pair.AccessToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
	s.Equal(0, s.usedRepo.Len())
}

func (s *TokenServiceTestSuite) TestRenew_Expired() {
	pair, err := s.service.IssuePair("alice")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	_, err = s.service.Renew(s.ctx, pair.RefreshToken)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
	s.Equal(0, s.usedRepo.Len())
}

func (s *TokenServiceTestSuite) TestRenew_Concurrent() {
	pair, err := s.service.IssuePair("alice")
	s.Require().NoError(err)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		replays   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Renew(s.ctx, pair.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrTokenAlreadyUsed):
				replays++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(workers-1, replays)
}

func TestTokenService_RenewStoreFailure(t *testing.T) {
	usedRepo := new(MockUsedTokenRepository)
	svc := services.NewTokenService(testTokenConfig(), usedRepo)

	pair, err := svc.IssuePair("alice")
	require.NoError(t, err)

	storeErr := apperrors.NewStoreError("mark used", errors.New("connection reset"))
	usedRepo.On("MarkUsed", mock.Anything, mock.MatchedBy(func(tok domain.UsedToken) bool {
		return tok.Subject == "alice" && len(tok.TokenHash) == 64
	})).Return(false, storeErr).Once()

	_, err = svc.Renew(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrStoreOperationFailed)
	assert.NotErrorIs(t, err, apperrors.ErrTokenAlreadyUsed)
	usedRepo.AssertExpectations(t)
}
