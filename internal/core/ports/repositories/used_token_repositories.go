package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
)

// UsedTokenRepository is the set of consumed refresh tokens.
type UsedTokenRepository interface {
	// MarkUsed inserts the token if it is absent. It reports alreadyUsed=true,
	// without modifying anything, when the token was already in the set. The
	// check and the insert are a single atomic step.
	MarkUsed(ctx context.Context, token domain.UsedToken) (alreadyUsed bool, err error)

	// PurgeExpired removes entries whose token expired before the given time.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
