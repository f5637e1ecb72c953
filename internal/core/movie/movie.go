// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package movie implements the movie catalog: listing, lookup, creation,
partial updates, and deletion of movies together with their poster images.

Posters are stored as references (object keys or bucket URLs). Responses never
expose the stored reference directly when it can be signed; see [poster.Resolver].
*/
package movie

import (
	"io"
	"time"
)

// # Validation Limits

const (
	// MaxTitleLength is the longest accepted title, in characters.
	MaxTitleLength = 255

	// MinPublishingYear is the year of the earliest surviving motion picture.
	MinPublishingYear = 1888
)

// # Field Names

const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldPublishingYear = "publishingYear"
	FieldPoster         = "poster"
)

// # Domain Entities

// Movie is a catalog record as persisted.
type Movie struct {
	ID             string
	Title          string
	PublishingYear int

	// Poster is the stored reference: an object key, a bucket URL, an external URL, or "".
	Poster string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is the API representation of a movie. Poster holds the display URL.
type View struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	PublishingYear int       `json:"publishingYear"`
	Poster         string    `json:"poster"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// # Inputs

// Upload is a poster file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateInput carries the fields for a new movie. When Upload is set it
// replaces Poster.
type CreateInput struct {
	Title          string
	PublishingYear int
	Poster         string
	Upload         *Upload
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title          *string
	PublishingYear *int
	Poster         *string
	Upload         *Upload
}
