// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/cinelist/internal/core/poster"
	"github.com/taibuivan/cinelist/internal/platform/apperr"
	"github.com/taibuivan/cinelist/internal/platform/validate"
	"github.com/taibuivan/cinelist/pkg/pagination"
	"github.com/taibuivan/cinelist/pkg/slice"
)

// Uploader writes poster files to object storage.
type Uploader interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// # Service Layer

// Service orchestrates the movie catalog and the poster objects attached to it.
type Service struct {
	repo           Repository
	posters        *poster.Resolver
	uploader       Uploader
	maxPosterBytes int64
	logger         *slog.Logger
	now            func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, posters *poster.Resolver, uploader Uploader, maxPosterBytes int64, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		posters:        posters,
		uploader:       uploader,
		maxPosterBytes: maxPosterBytes,
		logger:         logger,
		now:            time.Now,
	}
}

// MaxPosterBytes is the largest poster upload accepted.
func (service *Service) MaxPosterBytes() int64 {
	return service.maxPosterBytes
}

// # Lookups

/*
List returns one page of movies, newest first, with signed poster URLs.

Parameters:
  - context: context.Context
  - page: pagination.Request (already resolved and clamped)

Returns:
  - []View: The movies of the page
  - pagination.Meta: Page metadata computed from the total count
  - error: Repository errors
*/
func (service *Service) List(context context.Context, page pagination.Request) ([]View, pagination.Meta, error) {
	movies, total, err := service.repo.List(context, page.Size, page.Skip())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	references := slice.Map(movies, func(movie *Movie) string { return movie.Poster })
	displayURLs := service.posters.SignAll(context, references)

	views := make([]View, len(movies))
	for i, movie := range movies {
		views[i] = toView(movie, displayURLs[i])
	}

	return views, pagination.BuildMeta(page.Page, page.Size, total), nil
}

// Get fetches a single movie by ID.
func (service *Service) Get(context context.Context, id string) (*View, error) {
	movie, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return service.view(context, movie), nil
}

// # Mutations

/*
Create validates and stores a new movie.

Description: An uploaded poster is written to storage before the record. If
the record cannot be written the uploaded object is discarded again.
*/
func (service *Service) Create(context context.Context, input CreateInput) (*View, error) {
	title := strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	service.validateTitle(validator, title)
	service.validateYear(validator, input.PublishingYear)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	movie := &Movie{
		Title:          title,
		PublishingYear: input.PublishingYear,
		Poster:         strings.TrimSpace(input.Poster),
	}

	uploadedKey, err := service.storeUpload(context, input.Upload)
	if err != nil {
		return nil, err
	}
	if uploadedKey != "" {
		movie.Poster = uploadedKey
	}

	if err := service.repo.Create(context, movie); err != nil {
		service.DiscardUpload(context, uploadedKey)
		return nil, err
	}

	service.logger.InfoContext(context, "movie_created",
		slog.String("movie_id", movie.ID),
		slog.String("title", movie.Title),
	)
	return service.view(context, movie), nil
}

/*
Update applies a partial update.

Description: When the poster changes to a different object in the bucket the
old object is deleted in the background. The response does not wait for it.
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*View, error) {
	validator := &validate.Validator{}

	var title string
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		service.validateTitle(validator, title)
	}
	if input.PublishingYear != nil {
		service.validateYear(validator, *input.PublishingYear)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	existing, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if input.Title != nil {
		updated.Title = title
	}
	if input.PublishingYear != nil {
		updated.PublishingYear = *input.PublishingYear
	}

	posterSupplied := false
	if input.Poster != nil {
		updated.Poster = strings.TrimSpace(*input.Poster)
		posterSupplied = true
	}

	uploadedKey, err := service.storeUpload(context, input.Upload)
	if err != nil {
		return nil, err
	}
	if uploadedKey != "" {
		updated.Poster = uploadedKey
		posterSupplied = true
	}

	if err := service.repo.Update(context, &updated); err != nil {
		service.DiscardUpload(context, uploadedKey)
		return nil, err
	}

	if posterSupplied {
		service.posters.ScheduleDeletionIfReplaced(context, existing.Poster, updated.Poster)
	}

	service.logger.InfoContext(context, "movie_updated", slog.String("movie_id", updated.ID))
	return service.view(context, &updated), nil
}

// Delete removes a movie and then its poster object. A failed poster
// deletion does not fail the request.
func (service *Service) Delete(context context.Context, id string) error {
	movie, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}

	service.posters.DeleteNow(context, movie.Poster)

	service.logger.WarnContext(context, "movie_deleted", slog.String("movie_id", id))
	return nil
}

// DiscardUpload removes an uploaded object whose record was never written.
func (service *Service) DiscardUpload(context context.Context, key string) {
	if key == "" {
		return
	}
	service.posters.DeleteNow(context, key)
}

// # Helpers

func (service *Service) validateTitle(validator *validate.Validator, title string) {
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
}

func (service *Service) validateYear(validator *validate.Validator, year int) {
	validator.Range(FieldPublishingYear, year, MinPublishingYear, service.now().Year())
}

// storeUpload validates and writes upload, returning its key ("" without upload).
func (service *Service) storeUpload(context context.Context, upload *Upload) (string, error) {
	if upload == nil {
		return "", nil
	}

	if !strings.HasPrefix(strings.ToLower(upload.ContentType), "image/") {
		return "", apperr.UnsupportedMediaType("Only image files are allowed")
	}
	if upload.Size > service.maxPosterBytes {
		return "", apperr.PayloadTooLarge(fmt.Sprintf("Poster must not exceed %d bytes", service.maxPosterBytes))
	}

	key := poster.NewUploadKey(upload.Filename, service.now())
	if err := service.uploader.Put(context, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return "", apperr.Internal(fmt.Errorf("upload poster: %w", err))
	}

	service.logger.InfoContext(context, "poster_uploaded",
		slog.String("key", key),
		slog.Int64("size", upload.Size),
	)
	return key, nil
}

func (service *Service) view(context context.Context, movie *Movie) *View {
	view := toView(movie, service.posters.DisplayURL(context, movie.Poster))
	return &view
}

func toView(movie *Movie, displayURL string) View {
	return View{
		ID:             movie.ID,
		Title:          movie.Title,
		PublishingYear: movie.PublishingYear,
		Poster:         displayURL,
		CreatedAt:      movie.CreatedAt,
		UpdatedAt:      movie.UpdatedAt,
	}
}
