package domain

import (
	"io"
	"strings"
	"time"
)

// DirectoryContentType tags zero-length folder marker objects.
const DirectoryContentType = "application/x-directory"

// NormalizeFolder turns a user supplied folder path into an object key prefix
// ending with exactly one "/". Leading slashes are dropped. An empty result
// ("" or "/") denotes the bucket root and is returned as "".
func NormalizeFolder(folder string) string {
	trimmed := strings.Trim(strings.TrimSpace(folder), "/")
	if trimmed == "" {
		return ""
	}
	return trimmed + "/"
}

// IsDirectoryMarker reports whether the key looks like a folder marker.
func IsDirectoryMarker(key string) bool {
	return strings.HasSuffix(key, "/")
}

// ObjectInfo is what the object store reports about a single key.
type ObjectInfo struct {
	Key          string
	ETag         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// FileUpload is one file handed to the namespace manager. Size < 0 means the
// length is unknown and the content will be buffered to compute it.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadResult describes a stored file after a successful put.
type UploadResult struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	ETag     string `json:"etag"`
	Size     int64  `json:"size"`
}

// StoredFile is a listing entry relative to the folder it was listed from.
type StoredFile struct {
	Filename     string
	Key          string
	ETag         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// FolderListing is the result of listing a folder. An empty listing is a
// valid outcome, distinct from an error.
type FolderListing struct {
	Bucket string
	Folder string
	Files  []StoredFile
}

func (l *FolderListing) IsEmpty() bool {
	return l == nil || len(l.Files) == 0
}

// DeleteResult reports the files removed by a batch delete.
type DeleteResult struct {
	DeletedCount int
	Deleted      []string
}
