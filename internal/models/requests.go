package models

// EpisodeURLRequest submits a remote audio URL for processing.
type EpisodeURLRequest struct {
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	PodcastName *string `json:"podcast_name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SpeakerUpdateRequest maps original diarization labels to display names.
// Only labels whose name actually changed should be included.
type SpeakerUpdateRequest struct {
	SpeakerMap map[string]string `json:"speaker_map"`
}

// PDFExportRequest selects which sections the exported PDF includes.
type PDFExportRequest struct {
	IncludeSummary    bool `json:"include_summary"`
	IncludeTakeaways  bool `json:"include_takeaways"`
	IncludeQuotes     bool `json:"include_quotes"`
	IncludeTranscript bool `json:"include_transcript"`
}

// DefaultPDFExportRequest includes every section.
func DefaultPDFExportRequest() PDFExportRequest {
	return PDFExportRequest{
		IncludeSummary:    true,
		IncludeTakeaways:  true,
		IncludeQuotes:     true,
		IncludeTranscript: true,
	}
}

// SetPublicRequest toggles an episode's public sharing flag.
type SetPublicRequest struct {
	IsPublic bool `json:"is_public"`
}

// SubscriptionCreateRequest subscribes the user to a podcast feed.
type SubscriptionCreateRequest struct {
	PodcastID   string  `json:"podcast_id"`
	PodcastName string  `json:"podcast_name"`
	FeedURL     string  `json:"feed_url"`
	ArtworkURL  *string `json:"artwork_url,omitempty"`
}

// SubscriptionUpdateRequest mutates subscription settings.
type SubscriptionUpdateRequest struct {
	IsActive *bool `json:"is_active,omitempty"`
}

// BatchProcessRequest submits selected feed items for processing.
type BatchProcessRequest struct {
	EpisodeIDs []string `json:"episode_ids"`
}
