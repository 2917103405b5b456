package views

import "github.com/podbrief/podbrief/internal/models"

// HistoryFilter selects which episodes the history page shows.
type HistoryFilter string

const (
	FilterAll       HistoryFilter = "all"
	FilterQueue     HistoryFilter = "queue"
	FilterCompleted HistoryFilter = "completed"
	FilterFailed    HistoryFilter = "failed"
)

// HistoryCard is one rendered row in the history list.
type HistoryCard struct {
	ID          string
	Title       string
	PodcastName string
	StatusLabel string
	Processing  bool
	Progress    int
	CreatedAt   string
}

// HistoryPage is the render-ready history list. Either Cards is non-empty or
// EmptyMessage is set; a page can never render neither.
type HistoryPage struct {
	Filter       HistoryFilter
	Cards        []HistoryCard
	Total        int
	EmptyMessage string
}

var emptyMessages = map[HistoryFilter]string{
	FilterAll:       "No episodes yet. Search for a podcast or submit a URL to get started.",
	FilterQueue:     "Nothing in the queue. Episodes being processed will show up here.",
	FilterCompleted: "No completed episodes yet.",
	FilterFailed:    "No failed episodes.",
}

// BuildHistoryPage reduces a history response to page view state.
func BuildHistoryPage(filter HistoryFilter, list *models.EpisodeList) HistoryPage {
	page := HistoryPage{Filter: filter}
	if list == nil {
		page.EmptyMessage = emptyMessages[filter]
		return page
	}
	page.Total = list.Total

	for _, item := range list.Episodes {
		if !matchesFilter(filter, item.Status) {
			continue
		}
		card := HistoryCard{
			ID:          item.ID,
			StatusLabel: statusLabel(item.Status),
			Processing:  item.Status.IsProcessing(),
			Progress:    clampProgress(item.Progress),
		}
		if item.Title != nil {
			card.Title = *item.Title
		}
		if item.PodcastName != nil {
			card.PodcastName = *item.PodcastName
		}
		if item.CreatedAt != nil {
			card.CreatedAt = *item.CreatedAt
		}
		page.Cards = append(page.Cards, card)
	}

	if len(page.Cards) == 0 {
		page.EmptyMessage = emptyMessages[filter]
		if page.EmptyMessage == "" {
			page.EmptyMessage = "Nothing to show."
		}
	}
	return page
}

// matchesFilter reports whether a status belongs under a history filter.
// Queue means any non-terminal status.
func matchesFilter(filter HistoryFilter, status models.ProcessingStatus) bool {
	switch filter {
	case FilterQueue:
		return status.IsProcessing()
	case FilterCompleted:
		return status == models.StatusCompleted
	case FilterFailed:
		return status == models.StatusFailed
	default:
		return true
	}
}

// BackendStatusFilter maps a history filter to the status query parameter
// the list endpoint accepts, or empty when the filter is client-side only.
func BackendStatusFilter(filter HistoryFilter) models.ProcessingStatus {
	switch filter {
	case FilterCompleted:
		return models.StatusCompleted
	case FilterFailed:
		return models.StatusFailed
	default:
		// "queue" spans several statuses; fetch all and filter locally
		return ""
	}
}

func statusLabel(status models.ProcessingStatus) string {
	if label, ok := stageLabels[status]; ok {
		return label
	}
	return "Processing"
}
