package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
)

// UsedTokenRepository is a process local used-token set guarded by a mutex.
// It is only correct for a single replica.
type UsedTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]domain.UsedToken
}

var _ portsrepo.UsedTokenRepository = (*UsedTokenRepository)(nil)

func NewUsedTokenRepository() *UsedTokenRepository {
	return &UsedTokenRepository{tokens: make(map[string]domain.UsedToken)}
}

func (r *UsedTokenRepository) MarkUsed(ctx context.Context, token domain.UsedToken) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.NewStoreError("mark refresh token used", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token.TokenHash]; ok {
		return true, nil
	}
	r.tokens[token.TokenHash] = token
	return false, nil
}

func (r *UsedTokenRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.NewStoreError("purge used refresh tokens", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int64
	for hash, t := range r.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.tokens, hash)
			purged++
		}
	}
	return purged, nil
}

// Len returns the number of tokens currently in the set.
func (r *UsedTokenRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
