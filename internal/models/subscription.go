package models

// Subscription is a standing link to a podcast feed.
type Subscription struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	PodcastID         string  `json:"podcast_id"`
	PodcastName       string  `json:"podcast_name"`
	FeedURL           string  `json:"feed_url"`
	ArtworkURL        *string `json:"artwork_url,omitempty"`
	IsActive          bool    `json:"is_active"`
	LastCheckedAt     *string `json:"last_checked_at,omitempty"`
	LastEpisodeDate   *string `json:"last_episode_date,omitempty"`
	CreatedAt         *string `json:"created_at,omitempty"`
	TotalEpisodes     int     `json:"total_episodes"`
	ProcessedEpisodes int     `json:"processed_episodes"`
}

// SubscriptionEpisode is one feed item tracked under a subscription.
// EpisodeID links to a fully processed Episode once one exists.
type SubscriptionEpisode struct {
	ID              string                    `json:"id"`
	SubscriptionID  string                    `json:"subscription_id"`
	EpisodeGUID     string                    `json:"episode_guid"`
	EpisodeTitle    *string                   `json:"episode_title,omitempty"`
	AudioURL        *string                   `json:"audio_url,omitempty"`
	PublishDate     *string                   `json:"publish_date,omitempty"`
	DurationSeconds *float64                  `json:"duration_seconds,omitempty"`
	EpisodeID       *string                   `json:"episode_id,omitempty"`
	Status          SubscriptionEpisodeStatus `json:"status"`
	CreatedAt       *string                   `json:"created_at,omitempty"`
}

// SubscriptionList is the response to listing the current user's subscriptions.
type SubscriptionList struct {
	Subscriptions []Subscription `json:"subscriptions"`
}

// SubscriptionWithEpisodes is a subscription plus its tracked feed items.
type SubscriptionWithEpisodes struct {
	Subscription
	Episodes []SubscriptionEpisode `json:"episodes"`
}

// SubscriptionEpisodeList is a paginated page of tracked feed items.
type SubscriptionEpisodeList struct {
	Episodes []SubscriptionEpisode `json:"episodes"`
	Total    int                   `json:"total"`
}

// CheckEpisodesResponse reports the outcome of a manual feed check.
type CheckEpisodesResponse struct {
	NewEpisodes   int `json:"new_episodes"`
	AutoProcessed int `json:"auto_processed"`
}

// BatchProcessResponse acknowledges a batch submission.
type BatchProcessResponse struct {
	Message      string `json:"message"`
	EpisodeCount int    `json:"episode_count"`
}
