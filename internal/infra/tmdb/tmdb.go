package infra_tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cinematch/core/internal/model"
)

var ErrBadStatus = errors.New("unexpected catalog status")

// Client fetches the popular feed from a TMDB-compatible catalog. Only
// the fields the swipe deck needs are decoded, the rest of the payload is
// ignored.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

func New(baseURL string, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type movieDTO struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
	Overview   string `json:"overview"`
}

type pageDTO struct {
	Page    int        `json:"page"`
	Results []movieDTO `json:"results"`
}

// PopularPage fetches one page of the popular feed. Pages are 1-indexed.
func (c *Client) PopularPage(ctx context.Context, page int) ([]model.Movie, error) {
	endpoint := fmt.Sprintf("%s/movie/popular", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = query.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	var dto pageDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, err
	}

	movies := make([]model.Movie, len(dto.Results))
	for i, m := range dto.Results {
		movies[i] = model.Movie{
			ID:         m.ID,
			Title:      m.Title,
			PosterPath: m.PosterPath,
			Overview:   m.Overview,
		}
	}
	return movies, nil
}
