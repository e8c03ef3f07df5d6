// Package objectstore selects the ObjectStore implementation from config.
package objectstore

import (
	"context"
	"fmt"

	"github.com/SscSPs/knowledge_hub/internal/adapters/objectstore/memory"
	"github.com/SscSPs/knowledge_hub/internal/adapters/objectstore/minio"
	"github.com/SscSPs/knowledge_hub/internal/adapters/objectstore/s3"
	portsrepo "github.com/SscSPs/knowledge_hub/internal/core/ports/repositories"
	"github.com/SscSPs/knowledge_hub/internal/platform/config"
)

// New builds the object store named by cfg.ObjectStoreDriver.
func New(ctx context.Context, cfg *config.Config) (portsrepo.ObjectStore, error) {
	switch cfg.ObjectStoreDriver {
	case config.ObjectStoreMinio, "":
		return minio.NewStore(minio.Options{
			Endpoint:  cfg.ObjectStoreEndpoint,
			AccessKey: cfg.ObjectStoreAccessKey,
			SecretKey: cfg.ObjectStoreSecretKey,
			Region:    cfg.ObjectStoreRegion,
		})
	case config.ObjectStoreS3:
		return s3.NewStore(ctx, s3.Options{
			Endpoint:  cfg.ObjectStoreEndpoint,
			AccessKey: cfg.ObjectStoreAccessKey,
			SecretKey: cfg.ObjectStoreSecretKey,
			Region:    cfg.ObjectStoreRegion,
		})
	case config.ObjectStoreMemory:
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown object store driver %q", cfg.ObjectStoreDriver)
}
