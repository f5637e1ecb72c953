// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/cinelist/internal/core/poster"
	"github.com/taibuivan/cinelist/internal/platform/apperr"
	"github.com/taibuivan/cinelist/pkg/uuid"
)

var testBucket = poster.Bucket{Name: "cinelist-posters", Region: "us-east-1"}

var testNow = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

// # In-memory repository

type memoryRepository struct {
	mu        sync.Mutex
	movies    map[string]*Movie
	clock     time.Time
	failWrite error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{movies: make(map[string]*Movie), clock: testNow}
}

func (repository *memoryRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Second)
	return repository.clock
}

func (repository *memoryRepository) List(_ context.Context, limit, offset int) ([]*Movie, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	all := make([]*Movie, 0, len(repository.movies))
	for _, movie := range repository.movies {
		copied := *movie
		all = append(all, &copied)
	}
	slices.SortFunc(all, func(a, b *Movie) int { return b.CreatedAt.Compare(a.CreatedAt) })

	if offset >= len(all) {
		return []*Movie{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*Movie, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	movie, ok := repository.movies[id]
	if !ok {
		return nil, apperr.NotFound("Movie")
	}
	copied := *movie
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, movie *Movie) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWrite != nil {
		return repository.failWrite
	}
	movie.ID = uuid.New()
	movie.CreatedAt = repository.tick()
	movie.UpdatedAt = movie.CreatedAt

	copied := *movie
	repository.movies[movie.ID] = &copied
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, movie *Movie) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWrite != nil {
		return repository.failWrite
	}
	stored, ok := repository.movies[movie.ID]
	if !ok {
		return apperr.NotFound("Movie")
	}
	movie.CreatedAt = stored.CreatedAt
	movie.UpdatedAt = repository.tick()

	copied := *movie
	repository.movies[movie.ID] = &copied
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (*Movie, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	movie, ok := repository.movies[id]
	if !ok {
		return nil, apperr.NotFound("Movie")
	}
	delete(repository.movies, id)
	return movie, nil
}

// seed inserts a movie directly, bypassing validation.
func (repository *memoryRepository) seed(title string, posterRef string) *Movie {
	movie := &Movie{Title: title, PublishingYear: 2000, Poster: posterRef}
	_ = repository.Create(context.Background(), movie)
	return movie
}

// # In-memory object store

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: make(map[string][]byte)}
}

func (store *memoryObjects) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if store.putErr != nil {
		return store.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.objects[key] = data
	return nil
}

func (store *memoryObjects) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://%s.s3.us-east-1.amazonaws.com/%s?X-Amz-Signature=test", testBucket.Name, key), nil
}

func (store *memoryObjects) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.objects, key)
	store.deleted = append(store.deleted, key)
	return nil
}

func (store *memoryObjects) deletedKeys() []string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]string(nil), store.deleted...)
}

func (store *memoryObjects) keys() []string {
	store.mu.Lock()
	defer store.mu.Unlock()

	keys := make([]string, 0, len(store.objects))
	for key := range store.objects {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

var errDatabaseDown = errors.New("database down")

// # Fixture

type fixture struct {
	repo     *memoryRepository
	objects  *memoryObjects
	resolver *poster.Resolver
	service  *Service
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemoryRepository()
	objects := newMemoryObjects()
	resolver := poster.NewResolver(testBucket, objects, time.Hour, logger)

	service := NewService(repo, resolver, objects, 1024, logger)
	service.now = func() time.Time { return testNow }

	return &fixture{repo: repo, objects: objects, resolver: resolver, service: service}
}
