package usecase_movie

import (
	"context"
	"errors"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/cinematch/core/internal/model"
	cache_mocks "github.com/cinematch/core/internal/usecase/movie/mocks/cache"
	catalog_mocks "github.com/cinematch/core/internal/usecase/movie/mocks/catalog"
)

type UsecaseMovieUnitSuite struct {
	suite.Suite
}

var testMovies = []model.Movie{
	{ID: 101, Title: "Фильм 101", PosterPath: "/p101.jpg"},
	{ID: 102, Title: "Фильм 102", PosterPath: "/p102.jpg"},
}

func (suite *UsecaseMovieUnitSuite) TestPopular(t provider.T) {
	t.Parallel()

	t.Run("Should fetch a page and cache it", func(t provider.T) {
		catalog := catalog_mocks.NewCatalog(t)
		cache := cache_mocks.NewCacheRepository(t)
		uc := New(catalog, cache)
		ctx := context.Background()

		catalog.On("PopularPage", ctx, 1).Return(testMovies, nil).Once()
		cache.On("StorePage", ctx, 1, testMovies).Return(nil).Once()

		movies, err := uc.Popular(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, testMovies, movies)
	})

	t.Run("Should serve the page even when caching it fails", func(t provider.T) {
		catalog := catalog_mocks.NewCatalog(t)
		cache := cache_mocks.NewCacheRepository(t)
		uc := New(catalog, cache)
		ctx := context.Background()

		catalog.On("PopularPage", ctx, 1).Return(testMovies, nil).Once()
		cache.On("StorePage", ctx, 1, testMovies).
			Return(errors.New("connection refused")).Once()

		movies, err := uc.Popular(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, testMovies, movies)
	})

	t.Run("Should fall back to the cached copy when the catalog is down", func(t provider.T) {
		catalog := catalog_mocks.NewCatalog(t)
		cache := cache_mocks.NewCacheRepository(t)
		uc := New(catalog, cache)
		ctx := context.Background()

		catalog.On("PopularPage", ctx, 2).
			Return(nil, errors.New("503 service unavailable")).Once()
		cache.On("LoadPage", ctx, 2).Return(testMovies, nil).Once()

		movies, err := uc.Popular(ctx, 2)

		assert.NoError(t, err)
		assert.Equal(t, testMovies, movies)
	})

	t.Run("Should fail when both catalog and cache miss", func(t provider.T) {
		catalog := catalog_mocks.NewCatalog(t)
		cache := cache_mocks.NewCacheRepository(t)
		uc := New(catalog, cache)
		ctx := context.Background()

		catalog.On("PopularPage", ctx, 3).
			Return(nil, errors.New("timeout")).Once()
		cache.On("LoadPage", ctx, 3).Return(nil, ErrPageNotCached).Once()

		_, err := uc.Popular(ctx, 3)

		assert.ErrorIs(t, err, ErrCatalogFailed)
	})

	t.Run("Should reject non-positive pages", func(t provider.T) {
		catalog := catalog_mocks.NewCatalog(t)
		cache := cache_mocks.NewCacheRepository(t)
		uc := New(catalog, cache)

		for _, page := range []int{0, -1} {
			_, err := uc.Popular(context.Background(), page)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
		catalog.AssertNotCalled(t, "PopularPage")
	})
}

func TestUsecaseMovieUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseMovieUnitSuite))
}
