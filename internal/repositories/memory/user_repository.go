package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
)

// UserRepository keeps users in a map and enforces the same unique columns
// as the users table: username, email (case-insensitive) and mobile.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStoreError("save user", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		switch {
		case strings.EqualFold(u.Email, user.Email):
			return apperrors.ErrDuplicateEmail
		case u.Username == user.Username:
			return fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, user.Username)
		case u.Mobile == user.Mobile:
			return fmt.Errorf("%w: mobile %s", apperrors.ErrDuplicate, user.Mobile)
		}
	}
	r.users[user.UserID] = user
	return nil
}

func (r *UserRepository) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findFirst(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) FindUserByLoginIdentifier(_ context.Context, identifier domain.LoginIdentifier) (*domain.User, error) {
	value := identifier.Value()
	switch identifier.Kind() {
	case domain.ByUsername:
		return r.findFirst(func(u domain.User) bool { return u.Username == value })
	case domain.ByEmail:
		return r.findFirst(func(u domain.User) bool { return strings.EqualFold(u.Email, value) })
	case domain.ByMobile:
		return r.findFirst(func(u domain.User) bool { return u.Mobile == value })
	}
	return nil, fmt.Errorf("%w: unsupported login identifier", apperrors.ErrValidation)
}

func (r *UserRepository) findFirst(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
