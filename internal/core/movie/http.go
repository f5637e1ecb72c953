// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinelist/internal/platform/apperr"
	"github.com/taibuivan/cinelist/internal/platform/middleware"
	requestutil "github.com/taibuivan/cinelist/internal/platform/request"
	"github.com/taibuivan/cinelist/internal/platform/respond"
	"github.com/taibuivan/cinelist/pkg/pagination"
	"github.com/taibuivan/cinelist/pkg/pointer"
)

const (
	// posterFormField is the multipart field that carries the poster file.
	posterFormField = "poster"

	// multipartMemory is how much of a multipart body is held in memory before spilling to disk.
	multipartMemory = 1 << 20

	// multipartOverhead leaves room for the text fields and part headers next to the file.
	multipartOverhead = 1 << 20
)

// # HTTP Handler

// Handler exposes the movie catalog over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs a new movie [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for /api/v1/movies. Every route requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listMovies)
	router.Post("/", handler.createMovie)
	router.Get("/{id}", handler.getMovie)
	router.Patch("/{id}", handler.updateMovie)
	router.Delete("/{id}", handler.deleteMovie)

	return router
}

// # Request Payloads

// movieRequest is the JSON body for create and update. Nil fields are absent.
type movieRequest struct {
	Title          *string `json:"title"`
	PublishingYear *int    `json:"publishingYear"`
	Poster         *string `json:"poster"`
}

// # Handlers

func (handler *Handler) listMovies(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	movies, meta, err := handler.service.List(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, movies, meta)
}

func (handler *Handler) getMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.ID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	movie, err := handler.service.Get(request.Context(), movieID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, movie)
}

func (handler *Handler) createMovie(writer http.ResponseWriter, request *http.Request) {
	form, cleanup, err := handler.decodeMovie(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	movie, err := handler.service.Create(request.Context(), CreateInput{
		Title:          pointer.Val(form.title),
		PublishingYear: pointer.Val(form.publishingYear),
		Poster:         pointer.Val(form.poster),
		Upload:         form.upload,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, movie)
}

func (handler *Handler) updateMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.ID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	form, cleanup, err := handler.decodeMovie(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer cleanup()

	movie, err := handler.service.Update(request.Context(), movieID, UpdateInput{
		Title:          form.title,
		PublishingYear: form.publishingYear,
		Poster:         form.poster,
		Upload:         form.upload,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, movie)
}

func (handler *Handler) deleteMovie(writer http.ResponseWriter, request *http.Request) {
	movieID, err := requestutil.ID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), movieID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Body Decoding

// movieForm is the union of the JSON and multipart bodies. Nil means absent.
type movieForm struct {
	title          *string
	publishingYear *int
	poster         *string
	upload         *Upload
}

// decodeMovie reads either a multipart form (with an optional poster file) or a
// JSON body. The returned cleanup releases multipart temp files.
func (handler *Handler) decodeMovie(writer http.ResponseWriter, request *http.Request) (movieForm, func(), error) {
	noop := func() {}

	if !requestutil.IsMultipart(request) {
		var body movieRequest
		if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
			return movieForm{}, noop, err
		}
		return movieForm{title: body.Title, publishingYear: body.PublishingYear, poster: body.Poster}, noop, nil
	}

	request.Body = http.MaxBytesReader(writer, request.Body, handler.service.MaxPosterBytes()+multipartOverhead)
	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return movieForm{}, noop, apperr.PayloadTooLarge("Request body is too large")
		}
		return movieForm{}, noop, apperr.ValidationError("Invalid multipart form")
	}
	cleanup := func() { _ = request.MultipartForm.RemoveAll() }

	form := movieForm{
		title:  formValue(request.MultipartForm, FieldTitle),
		poster: formValue(request.MultipartForm, FieldPoster),
	}

	if raw := formValue(request.MultipartForm, FieldPublishingYear); raw != nil {
		year, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			cleanup()
			return movieForm{}, noop, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldPublishingYear, Message: "Must be a number"})
		}
		form.publishingYear = &year
	}

	if files := request.MultipartForm.File[posterFormField]; len(files) > 0 {
		header := files[0]
		file, err := header.Open()
		if err != nil {
			cleanup()
			return movieForm{}, noop, apperr.ValidationError("Unreadable poster file")
		}

		form.upload = &Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
		// The uploaded file wins over a poster text field
		form.poster = nil

		return form, func() {
			_ = file.Close()
			cleanup()
		}, nil
	}

	return form, cleanup, nil
}

func formValue(form *multipart.Form, field string) *string {
	values, ok := form.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}
