package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options configures the MinIO client.
type Options struct {
	// Endpoint is host:port or a URL. An https scheme turns on TLS.
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
}

// Store is the ObjectStore backed by a MinIO (or any S3 compatible) server.
type Store struct {
	client *minio.Client
}

var _ portsrepo.ObjectStore = (*Store)(nil)

// NewStore creates the MinIO client. No request is made until first use.
func NewStore(opts Options) (*Store, error) {
	host, secure, err := splitEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &Store{client: client}, nil
}

// splitEndpoint accepts both "localhost:9000" and "http://localhost:9000".
func splitEndpoint(endpoint string) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("object store endpoint cannot be empty")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), false, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid object store endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid object store endpoint %q: missing host", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}

func (s *Store) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, apperrors.NewStoreError("bucket exists", err)
	}
	return exists, nil
}

func (s *Store) MakeBucket(ctx context.Context, bucket string) error {
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return apperrors.NewStoreError("make bucket", err)
	}
	return nil
}

func (s *Store) RemoveBucket(ctx context.Context, bucket string) error {
	if err := s.client.RemoveBucket(ctx, bucket); err != nil {
		return apperrors.NewStoreError("remove bucket", err)
	}
	return nil
}

func (s *Store) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (domain.ObjectInfo, error) {
	info, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return domain.ObjectInfo{}, apperrors.NewStoreError("put object", err)
	}
	return domain.ObjectInfo{
		Key:          info.Key,
		ETag:         info.ETag,
		Size:         info.Size,
		ContentType:  contentType,
		LastModified: info.LastModified,
	}, nil
}

func (s *Store) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	objectCh := s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	out := make([]domain.ObjectInfo, 0)
	for object := range objectCh {
		if object.Err != nil {
			return nil, apperrors.NewStoreError("list objects", object.Err)
		}
		out = append(out, domain.ObjectInfo{
			Key:          object.Key,
			ETag:         object.ETag,
			Size:         object.Size,
			ContentType:  object.ContentType,
			LastModified: object.LastModified,
		})
	}
	return out, nil
}

func (s *Store) RemoveObject(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.NewStoreError("remove object", err)
	}
	return nil
}
