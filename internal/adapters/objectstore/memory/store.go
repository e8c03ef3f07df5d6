// Package memory is an in-process object store used for tests and for
// running the service without MinIO or S3.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
)

type object struct {
	data        []byte
	etag        string
	contentType string
	modified    time.Time
}

// Store keeps buckets and objects in maps. ETags are the hex MD5 of the
// content, like single part uploads on S3 compatible stores.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]map[string]object
	now     func() time.Time
}

var _ portsrepo.ObjectStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		buckets: make(map[string]map[string]object),
		now:     time.Now,
	}
}

func (s *Store) BucketExists(_ context.Context, bucket string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.buckets[bucket]
	return ok, nil
}

func (s *Store) MakeBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; ok {
		return apperrors.NewStoreError("make bucket", fmt.Errorf("bucket %s already exists", bucket))
	}
	s.buckets[bucket] = make(map[string]object)
	return nil
}

func (s *Store) RemoveBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return apperrors.NewStoreError("remove bucket", fmt.Errorf("bucket %s does not exist", bucket))
	}
	if len(objects) > 0 {
		return apperrors.NewStoreError("remove bucket", fmt.Errorf("bucket %s is not empty", bucket))
	}
	delete(s.buckets, bucket)
	return nil
}

func (s *Store) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, contentType string) (domain.ObjectInfo, error) {
	if size < 0 {
		return domain.ObjectInfo{}, apperrors.NewStoreError("put object", fmt.Errorf("size of %s must be declared", key))
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, size))
	if err != nil {
		return domain.ObjectInfo{}, apperrors.NewStoreError("put object", err)
	}
	if n != size {
		return domain.ObjectInfo{}, apperrors.NewStoreError("put object",
			fmt.Errorf("%s: read %d bytes, declared %d", key, n, size))
	}

	sum := md5.Sum(buf.Bytes())
	obj := object{
		data:        buf.Bytes(),
		etag:        hex.EncodeToString(sum[:]),
		contentType: contentType,
		modified:    s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return domain.ObjectInfo{}, apperrors.NewStoreError("put object", fmt.Errorf("bucket %s does not exist", bucket))
	}
	objects[key] = obj
	return toInfo(key, obj), nil
}

func (s *Store) ListObjects(_ context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return nil, apperrors.NewStoreError("list objects", fmt.Errorf("bucket %s does not exist", bucket))
	}

	out := make([]domain.ObjectInfo, 0)
	for key, obj := range objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, toInfo(key, obj))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) RemoveObject(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return apperrors.NewStoreError("remove object", fmt.Errorf("bucket %s does not exist", bucket))
	}
	delete(objects, key)
	return nil
}

// Content returns a copy of the stored bytes of key.
func (s *Store) Content(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

func toInfo(key string, obj object) domain.ObjectInfo {
	return domain.ObjectInfo{
		Key:          key,
		ETag:         obj.etag,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.modified,
	}
}
