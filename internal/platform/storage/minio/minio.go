// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package minio implements poster storage on a MinIO server.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taibuivan/cinelist/internal/platform/metrics"
)

// Config describes how to reach the MinIO server.
type Config struct {
	// Endpoint is either "host:port" (TLS assumed) or a full http(s) URL.
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Store wraps the MinIO SDK.
type Store struct {
	client *minio.Client
	bucket string
	region string
}

// New creates a new MinIO storage client. It does not contact the server.
func New(cfg Config) (*Store, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new client: %w", err)
	}

	return &Store{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	if endpoint == "" {
		return "", false, fmt.Errorf("minio: endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("minio: invalid endpoint %q: %w", endpoint, err)
	}
	if parsed.Host == "" {
		return "", false, fmt.Errorf("minio: endpoint %q has no host", endpoint)
	}
	return parsed.Host, parsed.Scheme == "https", nil
}

// EnsureBucket creates the bucket if it does not already exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	start := time.Now()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		metrics.RecordStorageOperation("ensure_bucket", time.Since(start), false)
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	}

	metrics.RecordStorageOperation("ensure_bucket", time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// Put streams data from body directly into MinIO. Pass size = -1 if unknown.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	start := time.Now()

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	metrics.RecordStorageOperation("put_object", time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// PresignGet returns a presigned GET URL valid for ttl.
func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	start := time.Now()

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	metrics.RecordStorageOperation("presign_get", time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", key, err)
	}
	return signed.String(), nil
}

// Delete removes an object from the bucket. MinIO treats absent keys as success.
func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()

	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	metrics.RecordStorageOperation("delete_object", time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}
