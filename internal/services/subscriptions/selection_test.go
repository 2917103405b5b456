package subscriptions

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/podbrief/podbrief/internal/models"
)

type MockBatchProcessor struct {
	mock.Mock
}

func (m *MockBatchProcessor) BatchProcess(ctx context.Context, subscriptionID string, episodeIDs []string) (*models.BatchProcessResponse, error) {
	args := m.Called(ctx, subscriptionID, episodeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BatchProcessResponse), args.Error(1)
}

func feedItem(id string, status models.SubscriptionEpisodeStatus, published string) models.SubscriptionEpisode {
	ep := models.SubscriptionEpisode{
		ID:             id,
		SubscriptionID: "sub-1",
		EpisodeGUID:    "guid-" + id,
		Status:         status,
	}
	if published != "" {
		ep.PublishDate = &published
	}
	return ep
}

func pendingFeed(n int) []models.SubscriptionEpisode {
	items := make([]models.SubscriptionEpisode, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, feedItem(fmt.Sprintf("fi-%02d", i), models.SubEpisodePending, "2026-08-20"))
	}
	return items
}

func TestSelection_CandidatesArePendingOnly(t *testing.T) {
	items := []models.SubscriptionEpisode{
		feedItem("fi-1", models.SubEpisodePending, "2026-08-20"),
		feedItem("fi-2", models.SubEpisodeCompleted, "2026-08-19"),
		feedItem("fi-3", models.SubEpisodeProcessing, "2026-08-18"),
		feedItem("fi-4", models.SubEpisodePending, "2026-08-17"),
	}

	sel := NewSelection(new(MockBatchProcessor), "sub-1", items)
	candidates := sel.Candidates()
	require.Len(t, candidates, 2)
	assert.Equal(t, "fi-1", candidates[0].ID)
	assert.Equal(t, "fi-4", candidates[1].ID)
}

func TestSelection_SelectRejectsNonCandidates(t *testing.T) {
	items := []models.SubscriptionEpisode{
		feedItem("fi-1", models.SubEpisodeCompleted, "2026-08-20"),
	}

	sel := NewSelection(new(MockBatchProcessor), "sub-1", items)
	assert.Error(t, sel.Select("fi-1"))
	assert.Error(t, sel.Select("fi-unknown"))
	assert.Zero(t, sel.Count())
}

func TestSelection_CapIsRejectedNotTruncated(t *testing.T) {
	sel := NewSelection(new(MockBatchProcessor), "sub-1", pendingFeed(MaxBatchSize+5))

	for i := 0; i < MaxBatchSize; i++ {
		require.NoError(t, sel.Select(fmt.Sprintf("fi-%02d", i)))
	}
	err := sel.Select(fmt.Sprintf("fi-%02d", MaxBatchSize))
	assert.ErrorIs(t, err, ErrBatchLimit)
	assert.Equal(t, MaxBatchSize, sel.Count())
}

func TestSelection_SelectAllCapsAtBatchSize(t *testing.T) {
	sel := NewSelection(new(MockBatchProcessor), "sub-1", pendingFeed(30))

	count := sel.SelectAll()
	assert.Equal(t, MaxBatchSize, count)
	assert.Equal(t, MaxBatchSize, sel.Count())
}

func TestSelection_ToggleAndClear(t *testing.T) {
	sel := NewSelection(new(MockBatchProcessor), "sub-1", pendingFeed(3))

	require.NoError(t, sel.Toggle("fi-00"))
	assert.Equal(t, 1, sel.Count())
	require.NoError(t, sel.Toggle("fi-00"))
	assert.Zero(t, sel.Count())

	require.NoError(t, sel.Select("fi-01"))
	sel.Clear()
	assert.Zero(t, sel.Count())
}

func TestSelection_FilterNarrowsAndDropsSelections(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	items := []models.SubscriptionEpisode{
		feedItem("recent", models.SubEpisodePending, "2026-08-27"),
		feedItem("old", models.SubEpisodePending, "2026-06-01"),
		feedItem("undated", models.SubEpisodePending, ""),
	}

	sel := NewSelection(new(MockBatchProcessor), "sub-1", items)
	require.NoError(t, sel.Select("recent"))
	require.NoError(t, sel.Select("old"))

	sel.SetFilter(LastWeek(now))

	candidates := sel.Candidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "recent", candidates[0].ID)

	// The out-of-range selection was dropped, not kept invisibly
	assert.Equal(t, []string{"recent"}, sel.SelectedIDs())
}

func TestDateRange_ParsesCommonFeedFormats(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	r := LastMonth(now)

	rfc3339 := "2026-08-15T10:00:00Z"
	plain := "2026-08-15"
	naive := "2026-08-15T10:00:00"
	garbage := "not a date"

	assert.True(t, r.contains(&rfc3339))
	assert.True(t, r.contains(&plain))
	assert.True(t, r.contains(&naive))
	assert.False(t, r.contains(&garbage))
	assert.False(t, r.contains(nil))
}

func TestDateRange_ZeroRangeIsOpen(t *testing.T) {
	var r DateRange
	assert.True(t, r.contains(nil))
	old := "1999-01-01"
	assert.True(t, r.contains(&old))
}

func TestSelection_SubmitClearsOnSuccess(t *testing.T) {
	client := new(MockBatchProcessor)
	client.On("BatchProcess", mock.Anything, "sub-1", []string{"fi-00", "fi-01"}).
		Return(&models.BatchProcessResponse{Message: "Processing started", EpisodeCount: 2}, nil)

	sel := NewSelection(client, "sub-1", pendingFeed(3))
	require.NoError(t, sel.Select("fi-00"))
	require.NoError(t, sel.Select("fi-01"))

	resp, err := sel.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.EpisodeCount)
	assert.Zero(t, sel.Count())
	client.AssertExpectations(t)
}

func TestSelection_SubmitEmptySelection(t *testing.T) {
	client := new(MockBatchProcessor)
	sel := NewSelection(client, "sub-1", pendingFeed(3))

	_, err := sel.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptySelection)
	client.AssertNotCalled(t, "BatchProcess", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelection_SubmitKeepsSelectionOnError(t *testing.T) {
	client := new(MockBatchProcessor)
	client.On("BatchProcess", mock.Anything, "sub-1", []string{"fi-00"}).
		Return(nil, fmt.Errorf("backend down"))

	sel := NewSelection(client, "sub-1", pendingFeed(1))
	require.NoError(t, sel.Select("fi-00"))

	_, err := sel.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, sel.Count(), "failed submit must not lose the selection")
}
