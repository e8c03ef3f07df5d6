package repositories

import (
	"context"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email. Returns apperrors.ErrNotFound when absent.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByLoginIdentifier retrieves the user matching a username, email or mobile.
	FindUserByLoginIdentifier(ctx context.Context, identifier domain.LoginIdentifier) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. Unique violations map to
	// apperrors.ErrDuplicateEmail or apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
