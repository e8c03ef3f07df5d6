package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Options configures the S3 client.
type Options struct {
	// Endpoint overrides the AWS endpoint, e.g. a MinIO URL. Empty uses AWS.
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
}

// API is the subset of *s3.Client the store uses.
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Store is the ObjectStore backed by the AWS SDK.
type Store struct {
	client API
	region string
}

var _ portsrepo.ObjectStore = (*Store)(nil)

// NewStore loads the AWS configuration with static credentials and builds
// a path-style client, which MinIO requires.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})
	return NewStoreWithClient(client, opts.Region), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client API, region string) *Store {
	return &Store{client: client, region: region}
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}

func (s *Store) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, apperrors.NewStoreError("head bucket", err)
	}
	return true, nil
}

func (s *Store) MakeBucket(ctx context.Context, bucket string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	// us-east-1 rejects an explicit location constraint.
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return apperrors.NewStoreError("create bucket", err)
	}
	return nil
}

func (s *Store) RemoveBucket(ctx context.Context, bucket string) error {
	if _, err := s.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return apperrors.NewStoreError("delete bucket", err)
	}
	return nil
}

func (s *Store) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (domain.ObjectInfo, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		return domain.ObjectInfo{}, apperrors.NewStoreError("put object", err)
	}
	return domain.ObjectInfo{
		Key:         key,
		ETag:        trimETag(aws.ToString(out.ETag)),
		Size:        size,
		ContentType: contentType,
	}, nil
}

func (s *Store) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	out := make([]domain.ObjectInfo, 0)
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperrors.NewStoreError("list objects", err)
		}
		for _, obj := range page.Contents {
			out = append(out, domain.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				ETag:         trimETag(aws.ToString(obj.ETag)),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}

func (s *Store) RemoveObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperrors.NewStoreError("delete object", err)
	}
	return nil
}

// trimETag strips the quotes S3 puts around ETag values.
func trimETag(etag string) string {
	return strings.Trim(etag, `"`)
}
