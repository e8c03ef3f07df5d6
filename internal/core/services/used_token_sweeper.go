package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
)

// RunUsedTokenSweeper purges used refresh tokens whose expiry has passed,
// once per interval, until ctx is cancelled. An expired token already fails
// verification, so forgetting it cannot reopen a replay.
func RunUsedTokenSweeper(ctx context.Context, repo portsrepo.UsedTokenRepository, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Used token sweeper started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Used token sweeper stopped")
			return
		case now := <-ticker.C:
			purged, err := repo.PurgeExpired(ctx, now)
			if err != nil {
				logger.Error("Failed to purge used refresh tokens", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				logger.Info("Purged used refresh tokens", slog.Int64("count", purged))
			}
		}
	}
}
