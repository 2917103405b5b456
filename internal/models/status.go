package models

// ProcessingStatus is the backend-assigned lifecycle state of an episode.
// The pipeline is linear; failed is reachable from any non-terminal state.
type ProcessingStatus string

const (
	StatusPending      ProcessingStatus = "pending"
	StatusDownloading  ProcessingStatus = "downloading"
	StatusTranscribing ProcessingStatus = "transcribing"
	StatusDiarizing    ProcessingStatus = "diarizing"
	StatusCleaning     ProcessingStatus = "cleaning"
	StatusSummarizing  ProcessingStatus = "summarizing"
	StatusCompleted    ProcessingStatus = "completed"
	StatusFailed       ProcessingStatus = "failed"
)

// PipelineOrder lists the non-terminal stages in processing order,
// ending with completed. Used for stage numbering in the UI.
var PipelineOrder = []ProcessingStatus{
	StatusPending,
	StatusDownloading,
	StatusTranscribing,
	StatusDiarizing,
	StatusCleaning,
	StatusSummarizing,
	StatusCompleted,
}

// IsTerminal reports whether no further transitions can occur.
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsProcessing reports whether the episode is still being worked on.
// Unknown status values from newer backends count as processing so the
// client degrades gracefully instead of crashing.
func (s ProcessingStatus) IsProcessing() bool {
	return !s.IsTerminal()
}

// StageIndex returns the 1-based position of the status in the pipeline,
// or 0 when the status is failed or unknown.
func (s ProcessingStatus) StageIndex() int {
	for i, stage := range PipelineOrder {
		if s == stage {
			return i + 1
		}
	}
	return 0
}

// SubscriptionEpisodeStatus is the lifecycle state of a feed item tracked
// under a subscription, distinct from the episode processing pipeline.
type SubscriptionEpisodeStatus string

const (
	SubEpisodePending    SubscriptionEpisodeStatus = "pending"
	SubEpisodeProcessing SubscriptionEpisodeStatus = "processing"
	SubEpisodeCompleted  SubscriptionEpisodeStatus = "completed"
	SubEpisodeSkipped    SubscriptionEpisodeStatus = "skipped"
	SubEpisodeFailed     SubscriptionEpisodeStatus = "failed"
)
