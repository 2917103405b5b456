package views

import (
	"context"
	"fmt"
	"time"

	"github.com/podbrief/podbrief/internal/models"
)

// Searcher is the slice of the backend client the search page needs.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (*models.SearchResponse, error)
}

// SearchCard is one rendered search result.
type SearchCard struct {
	ID              string
	Title           string
	PodcastName     string
	Description     string
	DurationSeconds int
	PublishDate     string
}

// SearchPage is the render-ready search result list.
type SearchPage struct {
	Query        string
	Cards        []SearchCard
	Total        int
	EmptyMessage string
}

// RunSearch issues a search with a bounded wait. Slow search backends get
// the configured grace period instead of the transport default.
func RunSearch(ctx context.Context, client Searcher, query string, limit int, wait time.Duration) (*SearchPage, error) {
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}

	resp, err := client.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return buildSearchPage(query, resp), nil
}

func buildSearchPage(query string, resp *models.SearchResponse) *SearchPage {
	page := &SearchPage{Query: query, Total: resp.Total}

	for _, result := range resp.Results {
		card := SearchCard{
			ID:          result.ID,
			Title:       result.Title,
			PodcastName: result.PodcastName,
		}
		if result.Description != nil {
			card.Description = *result.Description
		}
		if result.DurationSeconds != nil {
			card.DurationSeconds = *result.DurationSeconds
		}
		if result.PublishDate != nil {
			card.PublishDate = *result.PublishDate
		}
		page.Cards = append(page.Cards, card)
	}

	if len(page.Cards) == 0 {
		page.EmptyMessage = fmt.Sprintf("No episodes found for %q.", query)
	}
	return page
}
