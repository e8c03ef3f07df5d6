package s3

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.HeadBucketOutput)
	return out, args.Error(1)
}

func (m *MockS3API) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.CreateBucketOutput)
	return out, args.Error(1)
}

func (m *MockS3API) DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.DeleteBucketOutput)
	return out, args.Error(1)
}

func (m *MockS3API) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3API) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.DeleteObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3API) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

type S3StoreTestSuite struct {
	suite.Suite
	api   *MockS3API
	store *Store
	ctx   context.Context
}

func (s *S3StoreTestSuite) SetupTest() {
	s.api = new(MockS3API)
	s.store = NewStoreWithClient(s.api, "eu-west-1")
	s.ctx = context.Background()
}

func (s *S3StoreTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func TestS3StoreSuite(t *testing.T) {
	suite.Run(t, new(S3StoreTestSuite))
}

func (s *S3StoreTestSuite) TestBucketExists() {
	s.api.On("HeadBucket", s.ctx, mock.MatchedBy(func(in *s3.HeadBucketInput) bool {
		return aws.ToString(in.Bucket) == "docs"
	})).Return(&s3.HeadBucketOutput{}, nil).Once()

	exists, err := s.store.BucketExists(s.ctx, "docs")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *S3StoreTestSuite) TestBucketExists_NotFound() {
	s.api.On("HeadBucket", s.ctx, mock.Anything).Return(nil, &types.NotFound{}).Once()

	exists, err := s.store.BucketExists(s.ctx, "missing")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *S3StoreTestSuite) TestBucketExists_OtherErrorIsStoreFailure() {
	s.api.On("HeadBucket", s.ctx, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := s.store.BucketExists(s.ctx, "docs")
	s.ErrorIs(err, apperrors.ErrStoreOperationFailed)
}

func (s *S3StoreTestSuite) TestMakeBucket_SetsLocationConstraint() {
	s.api.On("CreateBucket", s.ctx, mock.MatchedBy(func(in *s3.CreateBucketInput) bool {
		return aws.ToString(in.Bucket) == "docs" &&
			in.CreateBucketConfiguration != nil &&
			in.CreateBucketConfiguration.LocationConstraint == types.BucketLocationConstraint("eu-west-1")
	})).Return(&s3.CreateBucketOutput{}, nil).Once()

	s.NoError(s.store.MakeBucket(s.ctx, "docs"))
}

func (s *S3StoreTestSuite) TestMakeBucket_DefaultRegionHasNoConstraint() {
	store := NewStoreWithClient(s.api, "us-east-1")
	s.api.On("CreateBucket", s.ctx, mock.MatchedBy(func(in *s3.CreateBucketInput) bool {
		return in.CreateBucketConfiguration == nil
	})).Return(&s3.CreateBucketOutput{}, nil).Once()

	s.NoError(store.MakeBucket(s.ctx, "docs"))
}

func (s *S3StoreTestSuite) TestPutObject_DeclaresLengthAndTrimsETag() {
	s.api.On("PutObject", s.ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Key) == "invoices/jan.pdf" &&
			aws.ToInt64(in.ContentLength) == 10 &&
			aws.ToString(in.ContentType) == "application/pdf"
	})).Return(&s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil).Once()

	info, err := s.store.PutObject(s.ctx, "docs", "invoices/jan.pdf", strings.NewReader("0123456789"), 10, "application/pdf")
	s.Require().NoError(err)
	s.Equal("abc123", info.ETag)
	s.Equal(int64(10), info.Size)
}

func (s *S3StoreTestSuite) TestListObjects_FollowsPages() {
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.api.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == "invoices/" && in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("invoices/"), ETag: aws.String(`"d41d"`), Size: aws.Int64(0), LastModified: &modified},
			{Key: aws.String("invoices/jan.pdf"), ETag: aws.String(`"e1"`), Size: aws.Int64(10), LastModified: &modified},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil).Once()
	s.api.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "page-2"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("invoices/feb.pdf"), ETag: aws.String(`"e2"`), Size: aws.Int64(20), LastModified: &modified},
		},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	objects, err := s.store.ListObjects(s.ctx, "docs", "invoices/")
	s.Require().NoError(err)
	s.Require().Len(objects, 3)
	s.Equal("invoices/jan.pdf", objects[1].Key)
	s.Equal("e1", objects[1].ETag)
	s.Equal(int64(20), objects[2].Size)
	s.Equal(modified, objects[2].LastModified)
}

func (s *S3StoreTestSuite) TestRemoveObject() {
	s.api.On("DeleteObject", s.ctx, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Bucket) == "docs" && aws.ToString(in.Key) == "invoices/jan.pdf"
	})).Return(&s3.DeleteObjectOutput{}, nil).Once()

	s.NoError(s.store.RemoveObject(s.ctx, "docs", "invoices/jan.pdf"))
}

func (s *S3StoreTestSuite) TestRemoveBucket_Error() {
	s.api.On("DeleteBucket", s.ctx, mock.Anything).Return(nil, errors.New("BucketNotEmpty")).Once()

	err := s.store.RemoveBucket(s.ctx, "docs")
	s.ErrorIs(err, apperrors.ErrStoreOperationFailed)
}
