package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	usersEmailKey    = "users_email_key"
	usersUsernameKey = "users_username_key"
	usersMobileKey   = "users_mobile_key"

	userColumns = `user_id, first_name, last_name, username, email, mobile, password_hash, created_at`
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.Mobile,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return duplicateUserError(constraint, user)
		}
		return apperrors.NewStoreError("save user", err)
	}
	return nil
}

func duplicateUserError(constraint string, user domain.User) error {
	switch constraint {
	case usersEmailKey:
		return apperrors.ErrDuplicateEmail
	case usersUsernameKey:
		return fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, user.Username)
	case usersMobileKey:
		return fmt.Errorf("%w: mobile %s is taken", apperrors.ErrDuplicate, user.Mobile)
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, constraint)
	}
}

func (r *PgxUserRepository) findOne(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1;`

	var u domain.User
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&u.UserID,
		&u.FirstName,
		&u.LastName,
		&u.Username,
		&u.Email,
		&u.Mobile,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError(op, err)
	}
	return &u, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "find user by id", "user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "find user by email", "email = $1", email)
}

func (r *PgxUserRepository) FindUserByLoginIdentifier(ctx context.Context, identifier domain.LoginIdentifier) (*domain.User, error) {
	switch identifier.Kind() {
	case domain.ByUsername:
		return r.findOne(ctx, "find user by username", "username = $1", identifier.Value())
	case domain.ByEmail:
		return r.findOne(ctx, "find user by email", "email = lower($1)", identifier.Value())
	case domain.ByMobile:
		return r.findOne(ctx, "find user by mobile", "mobile = $1", identifier.Value())
	}
	return nil, fmt.Errorf("%w: unsupported login identifier", apperrors.ErrValidation)
}
