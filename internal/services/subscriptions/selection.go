package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/podbrief/podbrief/internal/models"
)

// MaxBatchSize is the hard cap on episodes submitted in one batch. Each
// episode takes 10-15 minutes of backend processing, so 19 keeps a full
// batch under a workable bound.
const MaxBatchSize = 19

// BatchProcessor is the slice of the backend client the selection needs.
type BatchProcessor interface {
	BatchProcess(ctx context.Context, subscriptionID string, episodeIDs []string) (*models.BatchProcessResponse, error)
}

var (
	// ErrBatchLimit indicates the selection would exceed MaxBatchSize
	ErrBatchLimit = fmt.Errorf("at most %d episodes can be selected at once", MaxBatchSize)

	// ErrEmptySelection indicates a submit with nothing selected
	ErrEmptySelection = errors.New("no episodes selected")
)

// DateRange restricts selection candidates by publish date. Zero bounds are
// open-ended.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Preset date ranges offered by the subscription page.
func LastWeek(now time.Time) DateRange { return DateRange{Start: now.AddDate(0, 0, -7), End: now} }

func LastMonth(now time.Time) DateRange { return DateRange{Start: now.AddDate(0, -1, 0), End: now} }

func Last3Months(now time.Time) DateRange {
	return DateRange{Start: now.AddDate(0, -3, 0), End: now}
}

// contains reports whether a publish date string falls inside the range.
// Unparseable dates are excluded from filtered candidate sets.
func (r DateRange) contains(publishDate *string) bool {
	if r.Start.IsZero() && r.End.IsZero() {
		return true
	}
	if publishDate == nil {
		return false
	}
	t, err := parseDate(*publishDate)
	if err != nil {
		return false
	}
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

func parseDate(value string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", time.RFC1123Z, time.RFC1123}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}

// Selection is the batch-selection model for one subscription's feed items.
type Selection struct {
	subscriptionID string
	client         BatchProcessor
	episodes       []models.SubscriptionEpisode
	filter         DateRange
	selected       map[string]bool
}

// NewSelection creates a selection over a subscription's tracked episodes.
func NewSelection(client BatchProcessor, subscriptionID string, episodes []models.SubscriptionEpisode) *Selection {
	return &Selection{
		subscriptionID: subscriptionID,
		client:         client,
		episodes:       episodes,
		selected:       make(map[string]bool),
	}
}

// SetFilter narrows the candidate set by publish date and drops any selected
// ids that fall outside the new candidate set.
func (s *Selection) SetFilter(filter DateRange) {
	s.filter = filter
	candidates := make(map[string]bool)
	for _, ep := range s.Candidates() {
		candidates[ep.ID] = true
	}
	for id := range s.selected {
		if !candidates[id] {
			delete(s.selected, id)
		}
	}
}

// Candidates returns the selectable episodes: pending status, inside the
// active date filter, in feed order.
func (s *Selection) Candidates() []models.SubscriptionEpisode {
	var out []models.SubscriptionEpisode
	for _, ep := range s.episodes {
		if ep.Status != models.SubEpisodePending {
			continue
		}
		if !s.filter.contains(ep.PublishDate) {
			continue
		}
		out = append(out, ep)
	}
	return out
}

// Select marks an episode for submission. Exceeding the batch cap is
// rejected, never silently truncated.
func (s *Selection) Select(episodeID string) error {
	if !s.isCandidate(episodeID) {
		return fmt.Errorf("episode %s is not selectable", episodeID)
	}
	if s.selected[episodeID] {
		return nil
	}
	if len(s.selected) >= MaxBatchSize {
		return ErrBatchLimit
	}
	s.selected[episodeID] = true
	return nil
}

// Deselect unmarks an episode.
func (s *Selection) Deselect(episodeID string) {
	delete(s.selected, episodeID)
}

// Toggle flips an episode's selection.
func (s *Selection) Toggle(episodeID string) error {
	if s.selected[episodeID] {
		s.Deselect(episodeID)
		return nil
	}
	return s.Select(episodeID)
}

// SelectAll selects min(filtered candidates, MaxBatchSize) episodes,
// replacing the current selection.
func (s *Selection) SelectAll() int {
	s.selected = make(map[string]bool)
	for _, ep := range s.Candidates() {
		if len(s.selected) >= MaxBatchSize {
			break
		}
		s.selected[ep.ID] = true
	}
	return len(s.selected)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.selected = make(map[string]bool)
}

// SelectedIDs returns the selected ids in candidate order.
func (s *Selection) SelectedIDs() []string {
	var ids []string
	for _, ep := range s.Candidates() {
		if s.selected[ep.ID] {
			ids = append(ids, ep.ID)
		}
	}
	return ids
}

// Count returns the number of selected episodes.
func (s *Selection) Count() int {
	return len(s.selected)
}

// Submit posts the selection to the batch-process endpoint. The selection is
// cleared on success; the caller should refresh the episode list afterwards.
func (s *Selection) Submit(ctx context.Context) (*models.BatchProcessResponse, error) {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	resp, err := s.client.BatchProcess(ctx, s.subscriptionID, ids)
	if err != nil {
		return nil, fmt.Errorf("submitting batch: %w", err)
	}

	s.Clear()
	return resp, nil
}

func (s *Selection) isCandidate(episodeID string) bool {
	for _, ep := range s.Candidates() {
		if ep.ID == episodeID {
			return true
		}
	}
	return false
}
