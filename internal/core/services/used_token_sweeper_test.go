package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/core/services"
	"github.com/stretchr/testify/mock"
)

func TestRunUsedTokenSweeper(t *testing.T) {
	repo := new(MockUsedTokenRepository)
	ctx, cancel := context.WithCancel(context.Background())

	purged := make(chan struct{}, 8)
	repo.On("PurgeExpired", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(0), errors.New("transient")).Once()
	repo.On("PurgeExpired", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(3), nil).
		Run(func(mock.Arguments) {
			select {
			case purged <- struct{}{}:
			default:
			}
		})

	done := make(chan struct{})
	go func() {
		services.RunUsedTokenSweeper(ctx, repo, 5*time.Millisecond, nil)
		close(done)
	}()

	select {
	case <-purged:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not keep running after a failed purge")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}
