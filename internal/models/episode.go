package models

// TranscriptSegment is one diarized slice of the transcript.
type TranscriptSegment struct {
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Text          string  `json:"text"`
	Speaker       *string `json:"speaker,omitempty"`
	SpeakerLabel  *string `json:"speaker_label,omitempty"`
	SpeakerGender *string `json:"speaker_gender,omitempty"`
}

// KeyQuote is a notable quote extracted during summarization.
type KeyQuote struct {
	Text      string   `json:"text"`
	Speaker   *string  `json:"speaker,omitempty"`
	Timestamp *float64 `json:"timestamp,omitempty"`
}

// EpisodeSummary is the summarization result. The _en fields carry English
// translations when the source audio is non-English.
type EpisodeSummary struct {
	Paragraph   string     `json:"paragraph"`
	Takeaways   []string   `json:"takeaways"`
	KeyQuotes   []KeyQuote `json:"key_quotes"`
	ParagraphEn *string    `json:"paragraph_en,omitempty"`
	TakeawaysEn []string   `json:"takeaways_en,omitempty"`
}

// Episode is the full episode result payload. Transcript and summary are
// populated only once Status is completed; Error only when Status is failed.
type Episode struct {
	ID                string              `json:"id"`
	Title             *string             `json:"title,omitempty"`
	PodcastName       *string             `json:"podcast_name,omitempty"`
	Description       *string             `json:"description,omitempty"`
	Status            ProcessingStatus    `json:"status"`
	Progress          int                 `json:"progress"`
	StatusMessage     *string             `json:"status_message,omitempty"`
	Transcript        []TranscriptSegment `json:"transcript,omitempty"`
	CleanedTranscript *string             `json:"cleaned_transcript,omitempty"`
	Summary           *EpisodeSummary     `json:"summary,omitempty"`
	Error             *string             `json:"error,omitempty"`
	DurationSeconds   *float64            `json:"duration_seconds,omitempty"`
	AudioURL          *string             `json:"audio_url,omitempty"`
	LanguageCode      *string             `json:"language_code,omitempty"`
	CreatedAt         *string             `json:"created_at,omitempty"`
	UpdatedAt         *string             `json:"updated_at,omitempty"`
	IsPublic          bool                `json:"is_public"`
	Slug              *string             `json:"slug,omitempty"`
}

// EpisodeStatus is the lightweight poll response. It carries only the fields
// that change during processing; consumers merge it into known episode state.
type EpisodeStatus struct {
	ID              string           `json:"id"`
	Status          ProcessingStatus `json:"status"`
	Progress        int              `json:"progress"`
	StatusMessage   *string          `json:"status_message,omitempty"`
	Error           *string          `json:"error,omitempty"`
	DurationSeconds *float64         `json:"duration_seconds,omitempty"`
}

// EpisodeListItem is the lightweight representation used by the history list.
type EpisodeListItem struct {
	ID              string           `json:"id"`
	Title           *string          `json:"title,omitempty"`
	PodcastName     *string          `json:"podcast_name,omitempty"`
	Status          ProcessingStatus `json:"status"`
	Progress        int              `json:"progress"`
	CreatedAt       *string          `json:"created_at,omitempty"`
	DurationSeconds *float64         `json:"duration_seconds,omitempty"`
}

// EpisodeList is a paginated history page.
type EpisodeList struct {
	Episodes []EpisodeListItem `json:"episodes"`
	Total    int               `json:"total"`
}

// CreatedEpisode is the response to episode creation (upload or URL submit).
type CreatedEpisode struct {
	ID string `json:"id"`
}

// PublicStatus is the sharing state of an episode.
type PublicStatus struct {
	IsPublic bool    `json:"is_public"`
	Slug     *string `json:"slug,omitempty"`
}

// PublicSummary is the unauthenticated shared view of a completed episode.
type PublicSummary struct {
	Slug            string          `json:"slug"`
	Title           *string         `json:"title,omitempty"`
	PodcastName     *string         `json:"podcast_name,omitempty"`
	Description     *string         `json:"description,omitempty"`
	Summary         *EpisodeSummary `json:"summary,omitempty"`
	DurationSeconds *float64        `json:"duration_seconds,omitempty"`
	LanguageCode    *string         `json:"language_code,omitempty"`
	CreatedAt       *string         `json:"created_at,omitempty"`
}
