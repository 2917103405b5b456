package models

// PodcastSearchResult is one episode card returned by podcast search.
type PodcastSearchResult struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	PodcastName     string  `json:"podcast_name"`
	Description     *string `json:"description,omitempty"`
	AudioURL        string  `json:"audio_url"`
	Thumbnail       *string `json:"thumbnail,omitempty"`
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
	PublishDate     *string `json:"publish_date,omitempty"`
}

// SearchResponse is a page of search results.
type SearchResponse struct {
	Results []PodcastSearchResult `json:"results"`
	Total   int                   `json:"total"`
}
