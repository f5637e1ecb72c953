// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema holds the table and column names used by the PostgreSQL repositories.

Queries are assembled from these definitions so a column rename touches one file.
*/
package schema

// CatalogMovieTable represents the 'catalog.movie' table
type CatalogMovieTable struct {
	Table          string
	ID             string
	Title          string
	PublishingYear string
	Poster         string
	CreatedAt      string
	UpdatedAt      string
}

// CatalogMovie is the schema definition for catalog.movie
var CatalogMovie = CatalogMovieTable{
	Table:          "catalog.movie",
	ID:             "id",
	Title:          "title",
	PublishingYear: "publishingyear",
	Poster:         "poster",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t CatalogMovieTable) Columns() []string {
	return []string{t.ID, t.Title, t.PublishingYear, t.Poster, t.CreatedAt, t.UpdatedAt}
}
