package infra_postgres_movie

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cinematch/core/internal/model"
	usecase_movie "github.com/cinematch/core/internal/usecase/movie"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type movieDTO struct {
	ID         int64  `db:"id"`
	Title      string `db:"title"`
	PosterPath string `db:"poster_path"`
	Overview   string `db:"overview"`
}

// StorePage replaces the cached copy of one catalog page. Movie rows are
// upserted since the same movie may appear on several pages over time.
func (d *Driver) StorePage(ctx context.Context, page int, movies []model.Movie) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO movies (id, title, poster_path, overview)
		VALUES (:id, :title, :poster_path, :overview)
		ON CONFLICT (id)
		DO UPDATE SET title = EXCLUDED.title,
			poster_path = EXCLUDED.poster_path,
			overview = EXCLUDED.overview
	`

	for _, m := range movies {
		dto := movieDTO{
			ID:         m.ID,
			Title:      m.Title,
			PosterPath: m.PosterPath,
			Overview:   m.Overview,
		}
		if _, err := tx.NamedExecContext(ctx, upsert, dto); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_pages WHERE page = $1`, page); err != nil {
		return err
	}

	insert := `
		INSERT INTO catalog_pages (page, position, movie_id)
		VALUES ($1, $2, $3)
	`
	for i, m := range movies {
		if _, err := tx.ExecContext(ctx, insert, page, i, m.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *Driver) LoadPage(ctx context.Context, page int) ([]model.Movie, error) {
	var dtos []movieDTO

	query := `
		SELECT m.id, m.title, m.poster_path, m.overview
		FROM catalog_pages cp
		JOIN movies m ON m.id = cp.movie_id
		WHERE cp.page = $1
		ORDER BY cp.position
	`

	if err := d.db.SelectContext(ctx, &dtos, query, page); err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, usecase_movie.ErrPageNotCached
	}

	movies := make([]model.Movie, len(dtos))
	for i, dto := range dtos {
		movies[i] = model.Movie{
			ID:         dto.ID,
			Title:      dto.Title,
			PosterPath: dto.PosterPath,
			Overview:   dto.Overview,
		}
	}
	return movies, nil
}
