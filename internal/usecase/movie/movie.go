package usecase_movie

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cinematch/core/internal/model"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrCatalogFailed = errors.New("failed to fetch catalog page")
	ErrPageNotCached = errors.New("page not cached")
	ErrInternal      = errors.New("internal error")
)

//go:generate mockery --name=Catalog --output=./mocks/catalog --filename=catalog.go
type Catalog interface {
	// PopularPage fetches one page of the popular feed. Pages are
	// 1-indexed, the caller accumulates pages client-side.
	PopularPage(ctx context.Context, page int) ([]model.Movie, error)
}

//go:generate mockery --name=CacheRepository --output=./mocks/cache --filename=cache.go
type CacheRepository interface {
	StorePage(ctx context.Context, page int, movies []model.Movie) error
	LoadPage(ctx context.Context, page int) ([]model.Movie, error)
}

type Usecase struct {
	catalog Catalog
	cache   CacheRepository

	logger *slog.Logger
}

func New(catalog Catalog, cache CacheRepository) *Usecase {
	return &Usecase{
		catalog: catalog,
		cache:   cache,
		logger:  slog.Default(),
	}
}

// Popular returns one page of the popular feed. Fetched pages are cached;
// when the catalog is unreachable the cached copy is served so a swipe
// session survives transient catalog outages.
func (u *Usecase) Popular(ctx context.Context, page int) ([]model.Movie, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be positive", ErrInvalidInput)
	}

	movies, err := u.catalog.PopularPage(ctx, page)
	if err != nil {
		u.logger.Warn("catalog fetch failed, falling back to cache",
			slog.Int("page", page),
			slog.String("error", err.Error()))

		cached, cacheErr := u.cache.LoadPage(ctx, page)
		if cacheErr != nil {
			return nil, errors.Join(ErrCatalogFailed, err)
		}
		return cached, nil
	}

	// Cache failures must not fail the fetch itself.
	if err := u.cache.StorePage(ctx, page, movies); err != nil {
		u.logger.Warn("failed to cache catalog page",
			slog.Int("page", page),
			slog.String("error", err.Error()))
	}

	return movies, nil
}
