package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief/internal/models"
)

func strPtr(s string) *string { return &s }

func listItem(id string, status models.ProcessingStatus, progress int) models.EpisodeListItem {
	return models.EpisodeListItem{
		ID:       id,
		Title:    strPtr("Title " + id),
		Status:   status,
		Progress: progress,
	}
}

func TestBuildEpisodeDetail_Processing(t *testing.T) {
	episode := &models.Episode{
		ID:            "ep-1",
		Title:         strPtr("Deep Work"),
		PodcastName:   strPtr("Focus FM"),
		Status:        models.StatusTranscribing,
		Progress:      28,
		StatusMessage: strPtr("Transcribing audio..."),
	}

	detail := BuildEpisodeDetail(episode)
	assert.True(t, detail.Processing)
	assert.False(t, detail.Completed)
	assert.False(t, detail.Failed)
	assert.Equal(t, "Transcribing", detail.StageLabel)
	assert.Equal(t, 3, detail.StageIndex)
	assert.Equal(t, len(models.PipelineOrder), detail.StageTotal)
	assert.Equal(t, 28, detail.Progress)
	assert.Equal(t, "Transcribing audio...", detail.Message)
}

func TestBuildEpisodeDetail_UnknownStatusDegradesToProcessing(t *testing.T) {
	episode := &models.Episode{
		ID:       "ep-1",
		Status:   models.ProcessingStatus("vectorizing"),
		Progress: 150,
	}

	detail := BuildEpisodeDetail(episode)
	assert.True(t, detail.Processing)
	assert.Equal(t, "Processing", detail.StageLabel)
	assert.Equal(t, 0, detail.StageIndex)
	assert.Equal(t, 100, detail.Progress, "progress clamps to the bar range")
}

func TestBuildEpisodeDetail_Completed(t *testing.T) {
	episode := &models.Episode{
		ID:     "ep-1",
		Status: models.StatusCompleted,
		Transcript: []models.TranscriptSegment{
			{Start: 0, End: 5, Text: "hello"},
		},
		Summary: &models.EpisodeSummary{Paragraph: "A summary."},
	}

	detail := BuildEpisodeDetail(episode)
	assert.True(t, detail.Completed)
	assert.True(t, detail.HasTranscript)
	assert.True(t, detail.HasSummary)
	assert.False(t, detail.Processing)
}

func TestBuildEpisodeDetail_FailedWithoutError(t *testing.T) {
	detail := BuildEpisodeDetail(&models.Episode{ID: "ep-1", Status: models.StatusFailed})
	assert.True(t, detail.Failed)
	assert.True(t, detail.CanResume)
	assert.Equal(t, "Processing failed", detail.ErrorText)
}

func TestBuildEpisodeDetail_RTL(t *testing.T) {
	hebrew := BuildEpisodeDetail(&models.Episode{Status: models.StatusCompleted, LanguageCode: strPtr("he")})
	assert.True(t, hebrew.RTL)

	english := BuildEpisodeDetail(&models.Episode{Status: models.StatusCompleted, LanguageCode: strPtr("en")})
	assert.False(t, english.RTL)
}

func TestBuildHistoryPage_CardsOrEmptyMessageNeverNeither(t *testing.T) {
	filters := []HistoryFilter{FilterAll, FilterQueue, FilterCompleted, FilterFailed}
	lists := []*models.EpisodeList{
		nil,
		{},
		{Episodes: []models.EpisodeListItem{listItem("ep-1", models.StatusCompleted, 100)}},
		{Episodes: []models.EpisodeListItem{listItem("ep-2", models.StatusTranscribing, 30)}},
	}

	for _, filter := range filters {
		for _, list := range lists {
			page := BuildHistoryPage(filter, list)
			hasCards := len(page.Cards) > 0
			hasMessage := page.EmptyMessage != ""
			assert.True(t, hasCards != hasMessage,
				"filter %s must render cards xor empty message", filter)
		}
	}
}

func TestBuildHistoryPage_QueueSpansNonTerminalStatuses(t *testing.T) {
	list := &models.EpisodeList{
		Episodes: []models.EpisodeListItem{
			listItem("ep-1", models.StatusPending, 0),
			listItem("ep-2", models.StatusSummarizing, 80),
			listItem("ep-3", models.StatusCompleted, 100),
			listItem("ep-4", models.StatusFailed, 0),
			listItem("ep-5", models.ProcessingStatus("vectorizing"), 10),
		},
		Total: 5,
	}

	page := BuildHistoryPage(FilterQueue, list)
	require.Len(t, page.Cards, 3)
	assert.Equal(t, "ep-1", page.Cards[0].ID)
	assert.Equal(t, "ep-2", page.Cards[1].ID)
	assert.Equal(t, "ep-5", page.Cards[2].ID, "unknown statuses belong in the queue")
	for _, card := range page.Cards {
		assert.True(t, card.Processing)
	}
}

func TestBuildHistoryPage_CompletedAndFailedFilters(t *testing.T) {
	list := &models.EpisodeList{
		Episodes: []models.EpisodeListItem{
			listItem("ep-1", models.StatusCompleted, 100),
			listItem("ep-2", models.StatusFailed, 0),
		},
	}

	completed := BuildHistoryPage(FilterCompleted, list)
	require.Len(t, completed.Cards, 1)
	assert.Equal(t, "ep-1", completed.Cards[0].ID)
	assert.Equal(t, "Completed", completed.Cards[0].StatusLabel)

	failed := BuildHistoryPage(FilterFailed, list)
	require.Len(t, failed.Cards, 1)
	assert.Equal(t, "ep-2", failed.Cards[0].ID)
}

func TestBackendStatusFilter(t *testing.T) {
	assert.Equal(t, models.StatusCompleted, BackendStatusFilter(FilterCompleted))
	assert.Equal(t, models.StatusFailed, BackendStatusFilter(FilterFailed))
	assert.Equal(t, models.ProcessingStatus(""), BackendStatusFilter(FilterQueue))
	assert.Equal(t, models.ProcessingStatus(""), BackendStatusFilter(FilterAll))
}

type fakeSearcher struct {
	resp  *models.SearchResponse
	err   error
	query string
	limit int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) (*models.SearchResponse, error) {
	f.query = query
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestRunSearch_BuildsPage(t *testing.T) {
	desc := "A deep dive"
	duration := 3300
	searcher := &fakeSearcher{resp: &models.SearchResponse{
		Results: []models.PodcastSearchResult{
			{ID: "tf-001", Title: "Tools of Titans Revisited", PodcastName: "The Tim Ferriss Show", Description: &desc, DurationSeconds: &duration},
		},
		Total: 1,
	}}

	page, err := RunSearch(context.Background(), searcher, "tim ferriss", 20, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "tim ferriss", searcher.query)
	assert.Equal(t, 20, searcher.limit)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "tf-001", page.Cards[0].ID)
	assert.Equal(t, 3300, page.Cards[0].DurationSeconds)
	assert.Empty(t, page.EmptyMessage)
}

func TestRunSearch_EmptyResults(t *testing.T) {
	searcher := &fakeSearcher{resp: &models.SearchResponse{}}

	page, err := RunSearch(context.Background(), searcher, "no such show", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Cards)
	assert.Contains(t, page.EmptyMessage, "no such show")
}

func TestRunSearch_PropagatesError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("search backend down")}

	_, err := RunSearch(context.Background(), searcher, "x", 20, time.Second)
	assert.Error(t, err)
}

func TestBuildSubscriptionsPage(t *testing.T) {
	checked := "2026-08-28T09:00:00Z"
	list := &models.SubscriptionList{Subscriptions: []models.Subscription{
		{ID: "sub-1", PodcastName: "The Tim Ferriss Show", IsActive: true, TotalEpisodes: 30, ProcessedEpisodes: 4, LastCheckedAt: &checked},
		{ID: "sub-2", PodcastName: "Weird Counts", IsActive: false, TotalEpisodes: 2, ProcessedEpisodes: 5},
	}}

	page := BuildSubscriptionsPage(list)
	require.Len(t, page.Cards, 2)
	assert.Equal(t, 26, page.Cards[0].Pending)
	assert.Equal(t, checked, page.Cards[0].LastCheckedAt)
	assert.Equal(t, 0, page.Cards[1].Pending, "pending never goes negative")
}

func TestBuildSubscriptionsPage_Empty(t *testing.T) {
	page := BuildSubscriptionsPage(&models.SubscriptionList{})
	assert.Empty(t, page.Cards)
	assert.NotEmpty(t, page.EmptyMessage)

	page = BuildSubscriptionsPage(nil)
	assert.NotEmpty(t, page.EmptyMessage)
}
