package views

import (
	"github.com/podbrief/podbrief/internal/models"
)

// stageLabels maps pipeline statuses to user-facing stage text. Statuses
// outside this set get the generic processing treatment so newer backend
// values degrade gracefully.
var stageLabels = map[models.ProcessingStatus]string{
	models.StatusPending:      "Queued",
	models.StatusDownloading:  "Downloading audio",
	models.StatusTranscribing: "Transcribing",
	models.StatusDiarizing:    "Identifying speakers",
	models.StatusCleaning:     "Cleaning transcript",
	models.StatusSummarizing:  "Summarizing",
	models.StatusCompleted:    "Completed",
	models.StatusFailed:       "Failed",
}

// rtlLanguages flags languages rendered right-to-left.
var rtlLanguages = map[string]bool{
	"he": true, "ar": true, "fa": true, "ur": true, "yi": true,
}

// EpisodeDetail is the render-ready state of the episode detail page.
type EpisodeDetail struct {
	ID          string
	Title       string
	PodcastName string

	Processing bool
	StageLabel string
	StageIndex int
	StageTotal int
	Progress   int
	Message    string

	Completed bool
	Failed    bool
	ErrorText string
	CanResume bool

	HasTranscript bool
	HasSummary    bool
	RTL           bool
}

// BuildEpisodeDetail reduces an episode DTO to detail-page view state.
func BuildEpisodeDetail(episode *models.Episode) EpisodeDetail {
	detail := EpisodeDetail{
		ID:         episode.ID,
		StageTotal: len(models.PipelineOrder),
	}
	if episode.Title != nil {
		detail.Title = *episode.Title
	}
	if episode.PodcastName != nil {
		detail.PodcastName = *episode.PodcastName
	}
	if episode.StatusMessage != nil {
		detail.Message = *episode.StatusMessage
	}
	if episode.LanguageCode != nil {
		detail.RTL = rtlLanguages[*episode.LanguageCode]
	}

	label, known := stageLabels[episode.Status]
	if !known {
		label = "Processing"
	}
	detail.StageLabel = label
	detail.StageIndex = episode.Status.StageIndex()

	switch episode.Status {
	case models.StatusCompleted:
		detail.Completed = true
		detail.HasTranscript = len(episode.Transcript) > 0
		detail.HasSummary = episode.Summary != nil
	case models.StatusFailed:
		detail.Failed = true
		detail.CanResume = true
		if episode.Error != nil {
			detail.ErrorText = *episode.Error
		} else {
			detail.ErrorText = "Processing failed"
		}
	default:
		detail.Processing = true
		detail.Progress = clampProgress(episode.Progress)
	}

	return detail
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
