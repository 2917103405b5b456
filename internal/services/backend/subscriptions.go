package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/podbrief/podbrief/internal/models"
)

// ListSubscriptions fetches all subscriptions of the current user.
func (c *Client) ListSubscriptions(ctx context.Context) (*models.SubscriptionList, error) {
	var list models.SubscriptionList
	if err := c.doJSON(ctx, "GET", "/subscriptions", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return &list, nil
}

// CreateSubscription subscribes the user to a podcast feed.
func (c *Client) CreateSubscription(ctx context.Context, req models.SubscriptionCreateRequest) (*models.Subscription, error) {
	var sub models.Subscription
	if err := c.doJSON(ctx, "POST", "/subscriptions", nil, req, &sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return &sub, nil
}

// GetSubscription fetches a subscription with its tracked feed items.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*models.SubscriptionWithEpisodes, error) {
	var sub models.SubscriptionWithEpisodes
	if err := c.doJSON(ctx, "GET", "/subscriptions/"+url.PathEscape(subscriptionID), nil, nil, &sub); err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	return &sub, nil
}

// UpdateSubscription mutates subscription settings such as is_active.
func (c *Client) UpdateSubscription(ctx context.Context, subscriptionID string, req models.SubscriptionUpdateRequest) (*models.Subscription, error) {
	var sub models.Subscription
	if err := c.doJSON(ctx, "PUT", "/subscriptions/"+url.PathEscape(subscriptionID), nil, req, &sub); err != nil {
		return nil, fmt.Errorf("update subscription %s: %w", subscriptionID, err)
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	if err := c.doJSON(ctx, "DELETE", "/subscriptions/"+url.PathEscape(subscriptionID), nil, nil, nil); err != nil {
		return fmt.Errorf("delete subscription %s: %w", subscriptionID, err)
	}
	return nil
}

// ListSubscriptionEpisodes fetches a page of tracked feed items.
func (c *Client) ListSubscriptionEpisodes(ctx context.Context, subscriptionID string, status models.SubscriptionEpisodeStatus, limit, offset int) (*models.SubscriptionEpisodeList, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var list models.SubscriptionEpisodeList
	if err := c.doJSON(ctx, "GET", "/subscriptions/"+url.PathEscape(subscriptionID)+"/episodes", query, nil, &list); err != nil {
		return nil, fmt.Errorf("list subscription episodes %s: %w", subscriptionID, err)
	}
	return &list, nil
}

// CheckSubscription triggers a manual feed check for new episodes.
func (c *Client) CheckSubscription(ctx context.Context, subscriptionID string) (*models.CheckEpisodesResponse, error) {
	var resp models.CheckEpisodesResponse
	if err := c.doJSON(ctx, "POST", "/subscriptions/"+url.PathEscape(subscriptionID)+"/check", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("check subscription %s: %w", subscriptionID, err)
	}
	return &resp, nil
}

// BatchProcess submits selected feed items for processing.
func (c *Client) BatchProcess(ctx context.Context, subscriptionID string, episodeIDs []string) (*models.BatchProcessResponse, error) {
	req := models.BatchProcessRequest{EpisodeIDs: episodeIDs}
	var resp models.BatchProcessResponse
	if err := c.doJSON(ctx, "POST", "/subscriptions/"+url.PathEscape(subscriptionID)+"/process-batch", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("batch process subscription %s: %w", subscriptionID, err)
	}
	return &resp, nil
}

// FetchMoreEpisodes asks the backend to pull additional feed history.
func (c *Client) FetchMoreEpisodes(ctx context.Context, subscriptionID string) error {
	if err := c.doJSON(ctx, "POST", "/subscriptions/"+url.PathEscape(subscriptionID)+"/fetch-more", nil, nil, nil); err != nil {
		return fmt.Errorf("fetch more episodes %s: %w", subscriptionID, err)
	}
	return nil
}
