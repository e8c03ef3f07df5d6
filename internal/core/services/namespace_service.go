package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultAllowedFileTypes is used when no allow-list is configured.
var DefaultAllowedFileTypes = []string{".pdf"}

// namespaceService emulates buckets, folders and files on top of a flat
// object store. Folders are key prefixes ending in "/" plus an optional
// zero-length marker object at the prefix itself.
type namespaceService struct {
	BaseService
	store        portsrepo.ObjectStore
	allowedTypes map[string]struct{}
}

// NamespaceServiceOption is a functional option for configuring the namespace service.
type NamespaceServiceOption func(*namespaceService)

// WithAllowedFileTypes replaces the extension allow-list. Entries are matched
// case-insensitively and may be given with or without the leading dot.
func WithAllowedFileTypes(exts []string) NamespaceServiceOption {
	return func(s *namespaceService) {
		if len(exts) == 0 {
			return
		}
		s.allowedTypes = toExtensionSet(exts)
	}
}

// NewNamespaceService creates a new instance of namespaceService.
func NewNamespaceService(store portsrepo.ObjectStore, opts ...NamespaceServiceOption) portssvc.NamespaceManager {
	s := &namespaceService{
		store:        store,
		allowedTypes: toExtensionSet(DefaultAllowedFileTypes),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func toExtensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return set
}

func validateBucketName(bucket string) error {
	if strings.TrimSpace(bucket) == "" {
		return fmt.Errorf("%w: bucket name is required", apperrors.ErrValidation)
	}
	return nil
}

func validateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: filename is required", apperrors.ErrValidation)
	}
	if strings.Contains(filename, "/") {
		return fmt.Errorf("%w: filename %q must not contain '/'", apperrors.ErrValidation, filename)
	}
	return nil
}

// validateListedName accepts names as ListFiles returns them, which may
// include subfolders relative to the listed folder.
func validateListedName(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: filename is required", apperrors.ErrValidation)
	}
	if strings.HasPrefix(filename, "/") {
		return fmt.Errorf("%w: filename %q must not start with '/'", apperrors.ErrValidation, filename)
	}
	return nil
}

// checkFileType runs before any store call.
func (s *namespaceService) checkFileType(filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}
	ext := strings.ToLower(path.Ext(filename))
	if _, ok := s.allowedTypes[ext]; !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidFileType, filename)
	}
	return nil
}

func (s *namespaceService) requireBucket(ctx context.Context, bucket string) error {
	if err := validateBucketName(bucket); err != nil {
		return err
	}
	exists, err := s.store.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", apperrors.ErrBucketNotFound, bucket)
	}
	return nil
}

func requireFolder(folder string) (string, error) {
	prefix := domain.NormalizeFolder(folder)
	if prefix == "" {
		return "", fmt.Errorf("%w: folder name is required", apperrors.ErrValidation)
	}
	return prefix, nil
}

func (s *namespaceService) CreateBucket(ctx context.Context, bucket string) error {
	if err := validateBucketName(bucket); err != nil {
		return err
	}
	exists, err := s.store.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", apperrors.ErrBucketAlreadyExists, bucket)
	}
	if err := s.store.MakeBucket(ctx, bucket); err != nil {
		s.LogError(ctx, err, "Failed to create bucket", slog.String("bucket", bucket))
		return err
	}
	s.LogInfo(ctx, "Bucket created", slog.String("bucket", bucket))
	return nil
}

func (s *namespaceService) EnsureBucket(ctx context.Context, bucket string) error {
	err := s.CreateBucket(ctx, bucket)
	if err == nil || errors.Is(err, apperrors.ErrBucketAlreadyExists) {
		return nil
	}
	return err
}

// DeleteBucket empties the bucket key by key, then removes it. A failure
// part way leaves the bucket in place with the remaining keys.
func (s *namespaceService) DeleteBucket(ctx context.Context, bucket string) error {
	if err := s.requireBucket(ctx, bucket); err != nil {
		return err
	}
	removed, err := s.removePrefix(ctx, bucket, "")
	if err != nil {
		return err
	}
	if err := s.store.RemoveBucket(ctx, bucket); err != nil {
		s.LogError(ctx, err, "Failed to remove bucket", slog.String("bucket", bucket))
		return err
	}
	s.LogInfo(ctx, "Bucket deleted", slog.String("bucket", bucket), slog.Int("objects_removed", removed))
	return nil
}

// CreateFolder writes the marker object. Re-creating an existing folder
// overwrites the marker.
func (s *namespaceService) CreateFolder(ctx context.Context, bucket, folder string) error {
	if err := s.requireBucket(ctx, bucket); err != nil {
		return err
	}
	prefix, err := requireFolder(folder)
	if err != nil {
		return err
	}
	if _, err := s.store.PutObject(ctx, bucket, prefix, bytes.NewReader(nil), 0, domain.DirectoryContentType); err != nil {
		s.LogError(ctx, err, "Failed to create folder marker", slog.String("bucket", bucket), slog.String("folder", prefix))
		return err
	}
	s.LogInfo(ctx, "Folder created", slog.String("bucket", bucket), slog.String("folder", prefix))
	return nil
}

// ListFiles lists every file under the folder, recursively, with names
// relative to the folder. Folder markers are not reported.
func (s *namespaceService) ListFiles(ctx context.Context, bucket, folder string) (*domain.FolderListing, error) {
	if err := s.requireBucket(ctx, bucket); err != nil {
		return nil, err
	}
	prefix := domain.NormalizeFolder(folder)

	objects, err := s.store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		s.LogError(ctx, err, "Failed to list objects", slog.String("bucket", bucket), slog.String("folder", prefix))
		return nil, err
	}

	listing := &domain.FolderListing{
		Bucket: bucket,
		Folder: prefix,
		Files:  make([]domain.StoredFile, 0, len(objects)),
	}
	for _, obj := range objects {
		if domain.IsDirectoryMarker(obj.Key) {
			continue
		}
		listing.Files = append(listing.Files, domain.StoredFile{
			Filename:     strings.TrimPrefix(obj.Key, prefix),
			Key:          obj.Key,
			ETag:         obj.ETag,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	return listing, nil
}

// DeleteFolder removes every key under the folder, marker included. A
// folder that does not exist is treated like an empty one.
func (s *namespaceService) DeleteFolder(ctx context.Context, bucket, folder string) error {
	if err := s.requireBucket(ctx, bucket); err != nil {
		return err
	}
	prefix, err := requireFolder(folder)
	if err != nil {
		return err
	}
	removed, err := s.removePrefix(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Folder deleted", slog.String("bucket", bucket), slog.String("folder", prefix), slog.Int("objects_removed", removed))
	return nil
}

func (s *namespaceService) removePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	objects, err := s.store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		s.LogError(ctx, err, "Failed to list objects", slog.String("bucket", bucket), slog.String("prefix", prefix))
		return 0, err
	}
	for i, obj := range objects {
		if err := s.store.RemoveObject(ctx, bucket, obj.Key); err != nil {
			s.LogError(ctx, err, "Failed to remove object", slog.String("bucket", bucket), slog.String("key", obj.Key))
			return i, err
		}
	}
	return len(objects), nil
}

func (s *namespaceService) PutFile(ctx context.Context, bucket, folder string, file domain.FileUpload) (*domain.UploadResult, error) {
	if err := s.checkFileType(file.Filename); err != nil {
		return nil, err
	}
	if err := s.requireBucket(ctx, bucket); err != nil {
		return nil, err
	}
	result, err := s.upload(ctx, bucket, domain.NormalizeFolder(folder), file)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PutFiles checks every file type before touching the store, then uploads in
// order. Files uploaded before a failure stay in place.
func (s *namespaceService) PutFiles(ctx context.Context, bucket, folder string, files []domain.FileUpload) ([]domain.UploadResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", apperrors.ErrValidation)
	}
	for _, f := range files {
		if err := s.checkFileType(f.Filename); err != nil {
			return nil, err
		}
	}
	if err := s.requireBucket(ctx, bucket); err != nil {
		return nil, err
	}

	prefix := domain.NormalizeFolder(folder)
	results := make([]domain.UploadResult, 0, len(files))
	completed := make([]string, 0, len(files))
	for _, f := range files {
		result, err := s.upload(ctx, bucket, prefix, f)
		if err != nil {
			return results, &apperrors.BatchError{Item: f.Filename, Completed: completed, Err: err}
		}
		results = append(results, result)
		completed = append(completed, f.Filename)
	}
	return results, nil
}

// upload declares the content length up front. Content of unknown size is
// read into memory first.
func (s *namespaceService) upload(ctx context.Context, bucket, prefix string, file domain.FileUpload) (domain.UploadResult, error) {
	if file.Content == nil {
		return domain.UploadResult{}, fmt.Errorf("%w: file %s has no content", apperrors.ErrValidation, file.Filename)
	}

	content := file.Content
	size := file.Size
	contentType := file.ContentType

	if size < 0 || contentType == "" {
		data, err := io.ReadAll(content)
		if err != nil {
			return domain.UploadResult{}, fmt.Errorf("failed to read %s: %w", file.Filename, err)
		}
		size = int64(len(data))
		if contentType == "" {
			contentType = mimetype.Detect(data).String()
		}
		content = bytes.NewReader(data)
	}

	key := prefix + file.Filename
	info, err := s.store.PutObject(ctx, bucket, key, content, size, contentType)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload file", slog.String("bucket", bucket), slog.String("key", key))
		return domain.UploadResult{}, err
	}

	s.LogInfo(ctx, "File uploaded", slog.String("bucket", bucket), slog.String("key", key), slog.Int64("size", size))
	return domain.UploadResult{
		Filename: file.Filename,
		Key:      key,
		ETag:     info.ETag,
		Size:     size,
	}, nil
}

// DeleteFile removes a single key. An absent key is not an error.
func (s *namespaceService) DeleteFile(ctx context.Context, bucket, folder, filename string) error {
	if err := validateListedName(filename); err != nil {
		return err
	}
	if err := s.requireBucket(ctx, bucket); err != nil {
		return err
	}
	key := domain.NormalizeFolder(folder) + filename
	if err := s.store.RemoveObject(ctx, bucket, key); err != nil {
		s.LogError(ctx, err, "Failed to delete file", slog.String("bucket", bucket), slog.String("key", key))
		return err
	}
	s.LogInfo(ctx, "File deleted", slog.String("bucket", bucket), slog.String("key", key))
	return nil
}

// DeleteFiles removes files in order and stops at the first failure.
func (s *namespaceService) DeleteFiles(ctx context.Context, bucket, folder string, filenames []string) (*domain.DeleteResult, error) {
	if len(filenames) == 0 {
		return nil, fmt.Errorf("%w: at least one filename is required", apperrors.ErrValidation)
	}
	for _, name := range filenames {
		if err := validateListedName(name); err != nil {
			return nil, err
		}
	}
	if err := s.requireBucket(ctx, bucket); err != nil {
		return nil, err
	}

	prefix := domain.NormalizeFolder(folder)
	result := &domain.DeleteResult{Deleted: make([]string, 0, len(filenames))}
	for _, name := range filenames {
		if err := s.store.RemoveObject(ctx, bucket, prefix+name); err != nil {
			s.LogError(ctx, err, "Failed to delete file", slog.String("bucket", bucket), slog.String("key", prefix+name))
			completed := append([]string(nil), result.Deleted...)
			return result, &apperrors.BatchError{Item: name, Completed: completed, Err: err}
		}
		result.Deleted = append(result.Deleted, name)
		result.DeletedCount++
	}
	s.LogInfo(ctx, "Files deleted", slog.String("bucket", bucket), slog.String("folder", prefix), slog.Int("count", result.DeletedCount))
	return result, nil
}
