// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/cinelist/internal/platform/metrics"
)

const (
	// DefaultURLTTL is how long a signed poster URL stays valid.
	DefaultURLTTL = time.Hour

	// deletionTimeout bounds a background deletion detached from its request.
	deletionTimeout = 30 * time.Second

	// signConcurrency bounds the fan-out when signing a page of posters.
	signConcurrency = 8
)

// Signer issues time-limited GET URLs for object keys.
type Signer interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Deleter removes objects by key.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Objects is the storage surface the resolver needs.
type Objects interface {
	Signer
	Deleter
}

// # Results

// SignStatus classifies the outcome of resolving a reference.
type SignStatus int

const (
	// SignOK means URL holds a freshly signed URL.
	SignOK SignStatus = iota
	// SignSkipped means the reference is empty or does not belong to the bucket.
	SignSkipped
	// SignFailed means the storage call failed; Err holds the reason.
	SignFailed
)

// String returns the metric label for the status.
func (s SignStatus) String() string {
	switch s {
	case SignOK:
		return "ok"
	case SignSkipped:
		return "skipped"
	case SignFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SignResult is the outcome of signing one poster.
type SignResult struct {
	URL    string
	Status SignStatus
	Err    error
}

// # Resolver

// Resolver turns stored references into display URLs and cleans up replaced objects.
// It is safe for concurrent use.
type Resolver struct {
	bucket  Bucket
	objects Objects
	ttl     time.Duration
	logger  *slog.Logger

	pending sync.WaitGroup
}

// NewResolver constructs a [Resolver]. A non-positive ttl selects [DefaultURLTTL].
func NewResolver(bucket Bucket, objects Objects, ttl time.Duration, logger *slog.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		bucket:  bucket,
		objects: objects,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "poster")),
	}
}

// Bucket returns the bucket references are resolved against.
func (resolver *Resolver) Bucket() Bucket {
	return resolver.bucket
}

// Sign presigns key. It never panics and reports storage failures as [SignFailed].
func (resolver *Resolver) Sign(ctx context.Context, key string, ttl time.Duration) (result SignResult) {
	if key == "" {
		return resolver.record(SignResult{Status: SignSkipped})
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			resolver.logger.ErrorContext(ctx, "poster_sign_panicked",
				slog.String("key", key),
				slog.Any("panic", recovered),
			)
			result = resolver.record(SignResult{Status: SignFailed, Err: fmt.Errorf("poster: signer panicked: %v", recovered)})
		}
	}()

	signed, err := resolver.objects.PresignGet(ctx, key, ttl)
	if err != nil {
		resolver.logger.WarnContext(ctx, "poster_sign_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return resolver.record(SignResult{Status: SignFailed, Err: err})
	}

	return resolver.record(SignResult{URL: signed, Status: SignOK})
}

// Resolve extracts the key from reference and signs it. Foreign or empty
// references are [SignSkipped].
func (resolver *Resolver) Resolve(ctx context.Context, reference string) SignResult {
	key, ok := ExtractKey(reference, resolver.bucket)
	if !ok {
		return resolver.record(SignResult{Status: SignSkipped})
	}
	return resolver.Sign(ctx, key, resolver.ttl)
}

// DisplayURL returns the signed URL for reference, or the reference itself when
// it cannot be signed.
func (resolver *Resolver) DisplayURL(ctx context.Context, reference string) string {
	if reference == "" {
		return ""
	}

	result := resolver.Resolve(ctx, reference)
	if result.Status == SignOK {
		return result.URL
	}
	return reference
}

// SignAll resolves a page of references concurrently. The output keeps the input order.
func (resolver *Resolver) SignAll(ctx context.Context, references []string) []string {
	urls := make([]string, len(references))

	var group errgroup.Group
	group.SetLimit(signConcurrency)

	for i, reference := range references {
		group.Go(func() error {
			urls[i] = resolver.DisplayURL(ctx, reference)
			return nil
		})
	}

	_ = group.Wait()
	return urls
}

// # Cleanup

/*
ScheduleDeletionIfReplaced deletes the old poster object in the background when
a record's poster moves to a different key in the same bucket.

Description: Nothing is deleted when either reference is foreign or empty, or
when both resolve to the same key. The deletion outlives the request that
triggered it and is bounded by its own timeout. Failures are logged only.

Returns:
  - bool: true if a deletion was scheduled
*/
func (resolver *Resolver) ScheduleDeletionIfReplaced(ctx context.Context, oldReference, newReference string) bool {
	oldKey, oldOK := ExtractKey(oldReference, resolver.bucket)
	newKey, newOK := ExtractKey(newReference, resolver.bucket)
	if !oldOK || !newOK || oldKey == newKey {
		return false
	}

	detached := context.WithoutCancel(ctx)

	resolver.pending.Add(1)
	go func() {
		defer resolver.pending.Done()

		deleteCtx, cancel := context.WithTimeout(detached, deletionTimeout)
		defer cancel()

		resolver.deleteKey(deleteCtx, oldKey)
	}()

	return true
}

// DeleteNow removes the object behind reference synchronously. Foreign
// references are ignored and failures are logged only.
func (resolver *Resolver) DeleteNow(ctx context.Context, reference string) {
	key, ok := ExtractKey(reference, resolver.bucket)
	if !ok {
		return
	}
	resolver.deleteKey(ctx, key)
}

// Wait blocks until every scheduled background deletion has finished.
func (resolver *Resolver) Wait() {
	resolver.pending.Wait()
}

// deleteKey never panics; it also runs on goroutines nobody waits on for errors.
func (resolver *Resolver) deleteKey(ctx context.Context, key string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			metrics.RecordPosterDeletion(false)
			resolver.logger.ErrorContext(ctx, "poster_delete_panicked",
				slog.String("key", key),
				slog.Any("panic", recovered),
			)
		}
	}()

	err := resolver.objects.Delete(ctx, key)
	metrics.RecordPosterDeletion(err == nil)

	if err != nil {
		resolver.logger.ErrorContext(ctx, "poster_delete_failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	resolver.logger.InfoContext(ctx, "poster_deleted", slog.String("key", key))
}

func (resolver *Resolver) record(result SignResult) SignResult {
	metrics.RecordPosterSign(result.Status.String())
	return result
}
