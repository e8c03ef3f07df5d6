package services

import (
	"context"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
)

// BucketSvc defines bucket level operations.
type BucketSvc interface {
	CreateBucket(ctx context.Context, bucket string) error
	// EnsureBucket creates the bucket unless it already exists.
	EnsureBucket(ctx context.Context, bucket string) error
	// DeleteBucket removes every key of the bucket, then the bucket itself.
	DeleteBucket(ctx context.Context, bucket string) error
}

// FolderSvc defines folder operations emulated over key prefixes.
type FolderSvc interface {
	CreateFolder(ctx context.Context, bucket, folder string) error
	ListFiles(ctx context.Context, bucket, folder string) (*domain.FolderListing, error)
	DeleteFolder(ctx context.Context, bucket, folder string) error
}

// FileSvc defines file operations inside a folder.
type FileSvc interface {
	PutFile(ctx context.Context, bucket, folder string, file domain.FileUpload) (*domain.UploadResult, error)
	// PutFiles validates every file type first, then uploads sequentially.
	// On failure it returns the files uploaded so far and an *apperrors.BatchError.
	PutFiles(ctx context.Context, bucket, folder string, files []domain.FileUpload) ([]domain.UploadResult, error)
	DeleteFile(ctx context.Context, bucket, folder, filename string) error
	// DeleteFiles deletes sequentially. On failure it returns the files deleted
	// so far and an *apperrors.BatchError.
	DeleteFiles(ctx context.Context, bucket, folder string, filenames []string) (*domain.DeleteResult, error)
}

// NamespaceManager maps bucket/folder/file hierarchy operations onto a flat object store.
type NamespaceManager interface {
	BucketSvc
	FolderSvc
	FileSvc
}
