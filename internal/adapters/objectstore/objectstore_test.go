package objectstore

import (
	"context"
	"testing"

	"github.com/SscSPs/knowledge_hub/internal/adapters/objectstore/memory"
	"github.com/SscSPs/knowledge_hub/internal/adapters/objectstore/minio"
	"github.com/SscSPs/knowledge_hub/internal/adapters/objectstore/s3"
	"github.com/SscSPs/knowledge_hub/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	base := config.Config{
		ObjectStoreEndpoint:  "http://localhost:4003",
		ObjectStoreAccessKey: "access",
		ObjectStoreSecretKey: "secret",
		ObjectStoreRegion:    "us-east-1",
	}

	cfg := base
	cfg.ObjectStoreDriver = config.ObjectStoreMemory
	store, err := New(ctx, &cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	cfg.ObjectStoreDriver = config.ObjectStoreMinio
	store, err = New(ctx, &cfg)
	require.NoError(t, err)
	assert.IsType(t, &minio.Store{}, store)

	cfg.ObjectStoreDriver = config.ObjectStoreS3
	store, err = New(ctx, &cfg)
	require.NoError(t, err)
	assert.IsType(t, &s3.Store{}, store)

	cfg.ObjectStoreDriver = "ftp"
	_, err = New(ctx, &cfg)
	assert.Error(t, err)
}
