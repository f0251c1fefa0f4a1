package infra_tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/core/internal/model"
)

type InfraTMDBUnitSuite struct {
	suite.Suite
}

const popularPayload = `{
	"page": 2,
	"total_pages": 500,
	"results": [
		{"id": 550, "title": "Fight Club", "poster_path": "/550.jpg", "overview": "An insomniac office worker.", "vote_average": 8.4},
		{"id": 603, "title": "The Matrix", "poster_path": "/603.jpg", "overview": "A computer hacker."}
	]
}`

func (suite *InfraTMDBUnitSuite) TestPopularPage(t provider.T) {
	t.Parallel()

	t.Run("Should request the popular endpoint and decode its movies", func(t provider.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movie/popular", r.URL.Path)
			assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(popularPayload))
		}))
		defer server.Close()

		client := New(server.URL, "secret")

		movies, err := client.PopularPage(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, []model.Movie{
			{ID: 550, Title: "Fight Club", PosterPath: "/550.jpg", Overview: "An insomniac office worker."},
			{ID: 603, Title: "The Matrix", PosterPath: "/603.jpg", Overview: "A computer hacker."},
		}, movies)
	})

	t.Run("Should fail on a non-200 response", func(t provider.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := New(server.URL, "wrong")

		_, err := client.PopularPage(context.Background(), 1)

		assert.ErrorIs(t, err, ErrBadStatus)
	})

	t.Run("Should fail on a malformed payload", func(t provider.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results": "not-an-array"`))
		}))
		defer server.Close()

		client := New(server.URL, "secret")

		_, err := client.PopularPage(context.Background(), 1)

		assert.Error(t, err)
	})
}

func TestInfraTMDBUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(InfraTMDBUnitSuite))
}
