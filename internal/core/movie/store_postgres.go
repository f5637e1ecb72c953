// Copyright (c) 2026 Cinelist. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinelist/internal/platform/database/schema"
	"github.com/taibuivan/cinelist/internal/platform/dberr"
	"github.com/taibuivan/cinelist/pkg/uuid"
)

const resourceName = "Movie"

// PostgresRepository stores movies in the catalog.movie table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.CatalogMovie.Columns(), ", ")

func scanMovie(row pgx.Row) (*Movie, error) {
	movie := &Movie{}
	err := row.Scan(&movie.ID, &movie.Title, &movie.PublishingYear, &movie.Poster, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return movie, nil
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Movie, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CatalogMovie.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`,
		selectColumns, schema.CatalogMovie.Table,
		schema.CatalogMovie.CreatedAt, schema.CatalogMovie.ID,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	movies := make([]*Movie, 0, limit)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	return movies, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CatalogMovie.Table, schema.CatalogMovie.ID,
	)

	movie, err := scanMovie(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return movie, nil
}

func (repository *PostgresRepository) Create(context context.Context, movie *Movie) error {
	if movie.ID == "" {
		movie.ID = uuid.New()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CatalogMovie.Table,
		schema.CatalogMovie.ID, schema.CatalogMovie.Title, schema.CatalogMovie.PublishingYear,
		schema.CatalogMovie.Poster, schema.CatalogMovie.CreatedAt, schema.CatalogMovie.UpdatedAt,
		schema.CatalogMovie.CreatedAt, schema.CatalogMovie.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, movie.ID, movie.Title, movie.PublishingYear, movie.Poster).
		Scan(&movie.CreatedAt, &movie.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

func (repository *PostgresRepository) Update(context context.Context, movie *Movie) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s
	`,
		schema.CatalogMovie.Table,
		schema.CatalogMovie.Title, schema.CatalogMovie.PublishingYear, schema.CatalogMovie.Poster,
		schema.CatalogMovie.UpdatedAt, schema.CatalogMovie.ID,
		schema.CatalogMovie.CreatedAt, schema.CatalogMovie.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, movie.ID, movie.Title, movie.PublishingYear, movie.Poster).
		Scan(&movie.CreatedAt, &movie.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

func (repository *PostgresRepository) Delete(context context.Context, id string) (*Movie, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`,
		schema.CatalogMovie.Table, schema.CatalogMovie.ID, selectColumns,
	)

	movie, err := scanMovie(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return movie, nil
}
