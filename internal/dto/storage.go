package dto

import (
	"mime/multipart"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
)

// BucketRequest identifies a bucket, from the query string or a JSON body.
type BucketRequest struct {
	BucketName string `form:"bucket_name" json:"bucket_name" validate:"required"`
}

// FolderRequest identifies a folder inside a bucket.
type FolderRequest struct {
	BucketName string `form:"bucket_name" json:"bucket_name" validate:"required"`
	FolderName string `form:"folder_name" json:"folder_name" validate:"required"`
}

// ListFilesParams are the query parameters of GET /filereview/.
type ListFilesParams struct {
	BucketName string `form:"bucket_name" json:"bucket_name" validate:"required"`
	FolderName string `form:"folder_name" json:"folder_name"`
}

// DeleteFileParams are the query parameters of DELETE /filedelete/.
type DeleteFileParams struct {
	BucketName string `form:"bucket_name" json:"bucket_name" validate:"required"`
	FolderName string `form:"folder_name" json:"folder_name"`
	Filename   string `form:"filename" json:"filename" validate:"required"`
}

// DeleteFilesRequest is the body of DELETE /filesdelete/.
type DeleteFilesRequest struct {
	BucketName string   `form:"bucket_name" json:"bucket_name" validate:"required"`
	FolderName string   `form:"folder_name" json:"folder_name"`
	Filenames  []string `form:"filenames" json:"filenames" validate:"required,min=1,dive,required"`
}

// UploadFileForm is the multipart form of POST /fileupload/.
type UploadFileForm struct {
	BucketName string                `form:"bucket_name" binding:"required"`
	FolderName string                `form:"folder_name"`
	File       *multipart.FileHeader `form:"file" binding:"required"`
}

// UploadFilesForm is the multipart form of POST /fileuploads/.
type UploadFilesForm struct {
	BucketName string                  `form:"bucket_name" binding:"required"`
	FolderName string                  `form:"folder_name"`
	Files      []*multipart.FileHeader `form:"files" binding:"required,min=1"`
}

// MessageResponse is the generic success body of storage operations.
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadFileResponse is returned by POST /fileupload/.
type UploadFileResponse struct {
	Message string `json:"message"`
	ETag    string `json:"etag"`
}

// UploadedFileResponse is one entry of UploadFilesResponse.
type UploadedFileResponse struct {
	Filename string `json:"filename"`
	ETag     string `json:"etag"`
}

// UploadFilesResponse is returned by POST /fileuploads/.
type UploadFilesResponse struct {
	Message       string                 `json:"message"`
	UploadedFiles []UploadedFileResponse `json:"uploaded_files"`
}

// FileInfoResponse is one entry of a folder listing.
type FileInfoResponse struct {
	Filename     string `json:"filename"`
	ETag         string `json:"etag"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified"`
}

// ListFilesResponse is returned by GET /filereview/. Files is empty, never
// null, when the folder holds no files.
type ListFilesResponse struct {
	Message string             `json:"message"`
	Files   []FileInfoResponse `json:"files"`
}

// DeleteFilesResponse is returned by DELETE /filesdelete/.
type DeleteFilesResponse struct {
	Message      string   `json:"message"`
	DeletedCount int      `json:"deleted_count"`
	DeletedFiles []string `json:"deleted_files"`
}

func ToUploadedFilesResponse(results []domain.UploadResult) []UploadedFileResponse {
	out := make([]UploadedFileResponse, len(results))
	for i, r := range results {
		out[i] = UploadedFileResponse{Filename: r.Filename, ETag: r.ETag}
	}
	return out
}

func ToFileInfoResponses(files []domain.StoredFile) []FileInfoResponse {
	out := make([]FileInfoResponse, len(files))
	for i, f := range files {
		out[i] = FileInfoResponse{
			Filename:     f.Filename,
			ETag:         f.ETag,
			Size:         f.Size,
			ContentType:  f.ContentType,
			LastModified: f.LastModified.UTC().Format(time.RFC3339),
		}
	}
	return out
}
