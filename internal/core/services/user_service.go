package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/dto"
	"github.com/google/uuid"
)

// dummyPassword is hashed once and verified against when the login
// identifier matches no user, so both failure paths cost one hash check.
const dummyPassword = "knowledge-hub-dummy-password"

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	verifier portssvc.CredentialVerifier
	tokens   portssvc.TokenSvcFacade

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, verifier portssvc.CredentialVerifier, tokens portssvc.TokenSvcFacade) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		verifier: verifier,
		tokens:   tokens,
	}
}

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := s.GetLogger(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check email uniqueness")
		return nil, err
	}
	if existing != nil {
		logger.Info("Registration rejected, email already registered")
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := s.verifier.Hash(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		Mobile:       strings.TrimSpace(req.Mobile),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) || errors.Is(err, apperrors.ErrDuplicate) {
			logger.Info("Registration rejected by unique constraint", slog.String("error", err.Error()))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save user")
		return nil, err
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		s.LogError(ctx, err, "Failed to get user by ID", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	identifier, err := domain.NewLoginIdentifier(username, "", "")
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUserByLoginIdentifier(ctx, identifier)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user by username")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.verifier.Hash(dummyPassword)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

// Login verifies the password of the user matching identifier. An unknown
// identifier and a wrong password both yield apperrors.ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, identifier domain.LoginIdentifier, password string) (*domain.TokenPair, error) {
	logger := s.GetLogger(ctx)
	if identifier.IsZero() {
		return nil, fmt.Errorf("%w: login identifier is required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByLoginIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.verifier.Verify(password, s.dummyPasswordHash())
			logger.Info("Login failed", slog.String("identifier_kind", string(identifier.Kind())))
			return nil, apperrors.ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}

	if !s.verifier.Verify(password, user.PasswordHash) {
		logger.Info("Login failed", slog.String("identifier_kind", string(identifier.Kind())))
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.Username)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue tokens", slog.String("user_id", user.UserID))
		return nil, err
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return pair, nil
}

func (s *userService) RenewSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.tokens.Renew(ctx, refreshToken)
}
