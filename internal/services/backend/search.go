package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/podbrief/podbrief/internal/models"
)

// Search queries the backend's podcast episode search.
func (c *Client) Search(ctx context.Context, query string, limit int) (*models.SearchResponse, error) {
	if query == "" {
		return nil, errors.New("search query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp models.SearchResponse
	if err := c.doJSON(ctx, "GET", "/search", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("search podcasts: %w", err)
	}
	return &resp, nil
}

// GetSearchResult fetches a single search result by id, used when
// submitting an episode straight from a result card.
func (c *Client) GetSearchResult(ctx context.Context, id string) (*models.PodcastSearchResult, error) {
	var result models.PodcastSearchResult
	if err := c.doJSON(ctx, "GET", "/search/"+url.PathEscape(id), nil, nil, &result); err != nil {
		return nil, fmt.Errorf("get search result %s: %w", id, err)
	}
	return &result, nil
}
