// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import "context"

// Repository persists movies.
type Repository interface {
	// List returns one page of movies, newest first, and the total count.
	List(context context.Context, limit, offset int) ([]*Movie, int, error)

	FindByID(context context.Context, id string) (*Movie, error)

	// Create inserts movie and fills in its timestamps.
	Create(context context.Context, movie *Movie) error

	// Update overwrites the mutable fields of movie and refreshes UpdatedAt.
	Update(context context.Context, movie *Movie) error

	// Delete removes the movie and returns the row as it was.
	Delete(context context.Context, id string) (*Movie, error)
}
