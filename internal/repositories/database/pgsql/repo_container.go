package pgsql

import (
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the Postgres backed repositories. The object
// store is not database backed and is set by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:      newPgxUserRepository(dbPool),
		UsedTokenRepo: newPgxUsedTokenRepository(dbPool),
	}
}
