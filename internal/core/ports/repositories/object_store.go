package repositories

import (
	"context"
	"io"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
)

// ObjectStore is a flat bucket+key object store. Implementations wrap their
// client errors with apperrors.NewStoreError.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
	RemoveBucket(ctx context.Context, bucket string) error

	// PutObject stores exactly size bytes read from r under key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (domain.ObjectInfo, error)

	// ListObjects returns every key starting with prefix, recursively, in key order.
	ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error)

	// RemoveObject deletes a key. Removing an absent key is not an error.
	RemoveObject(ctx context.Context, bucket, key string) error
}
