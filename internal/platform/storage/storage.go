// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage abstracts the object store that holds movie posters.

Two drivers exist, selected by STORAGE_DRIVER:

  - s3: AWS S3 through aws-sdk-go-v2 (any S3-compatible endpoint also works).
  - minio: MinIO through minio-go.

Both drivers record every call in the Prometheus storage metrics.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/taibuivan/cinelist/internal/platform/config"
	"github.com/taibuivan/cinelist/internal/platform/storage/minio"
	"github.com/taibuivan/cinelist/internal/platform/storage/s3"
)

// ObjectStore is the set of operations the application needs from object storage.
type ObjectStore interface {
	// Put uploads body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// PresignGet returns a time-limited GET URL for key.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Bucket returns the bucket every key lives in.
	Bucket() string
}

var (
	_ ObjectStore = (*s3.Store)(nil)
	_ ObjectStore = (*minio.Store)(nil)
)

// New builds the driver selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})

	case config.StorageDriverMinio:
		store, err := minio.New(minio.Config{
			Endpoint:        cfg.S3Endpoint,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
