package services

import (
	"context"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	"github.com/SscSPs/knowledge_hub/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username, the subject of issued tokens.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a new user. Fails with apperrors.ErrDuplicateEmail
	// when the email is taken.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// Login checks the password of the user matching identifier and issues a
	// token pair. Any failure is apperrors.ErrInvalidCredentials.
	Login(ctx context.Context, identifier domain.LoginIdentifier, password string) (*domain.TokenPair, error)

	// RenewSession exchanges a refresh token for a new token pair.
	RenewSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}

// CredentialVerifier is a one-way password hash with its paired verifier.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
