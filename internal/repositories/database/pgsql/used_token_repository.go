package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUsedTokenRepository keeps consumed refresh tokens in used_refresh_tokens.
// The primary key on token_hash makes MarkUsed a single atomic statement
// across every replica sharing the database.
type PgxUsedTokenRepository struct {
	BaseRepository
}

func newPgxUsedTokenRepository(db *pgxpool.Pool) portsrepo.UsedTokenRepository {
	return &PgxUsedTokenRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.UsedTokenRepository = (*PgxUsedTokenRepository)(nil)

// NewUsedTokenRepository is exported for wiring the store on its own.
func NewUsedTokenRepository(db *pgxpool.Pool) portsrepo.UsedTokenRepository {
	return newPgxUsedTokenRepository(db)
}

func (r *PgxUsedTokenRepository) MarkUsed(ctx context.Context, token domain.UsedToken) (bool, error) {
	query := `
        INSERT INTO used_refresh_tokens (token_hash, subject, expires_at, used_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (token_hash) DO NOTHING;
    `
	tag, err := r.Pool.Exec(ctx, query, token.TokenHash, token.Subject, token.ExpiresAt, token.UsedAt)
	if err != nil {
		return false, apperrors.NewStoreError("mark refresh token used", err)
	}
	return tag.RowsAffected() == 0, nil
}

func (r *PgxUsedTokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM used_refresh_tokens WHERE expires_at < $1;`, before)
	if err != nil {
		return 0, apperrors.NewStoreError("purge used refresh tokens", err)
	}
	return tag.RowsAffected(), nil
}
