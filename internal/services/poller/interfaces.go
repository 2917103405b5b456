package poller

import (
	"context"

	"github.com/podbrief/podbrief/internal/models"
)

// StatusFetcher is the slice of the backend client the poller needs.
type StatusFetcher interface {
	GetStatus(ctx context.Context, episodeID string) (*models.EpisodeStatus, error)
	GetEpisode(ctx context.Context, episodeID string) (*models.Episode, error)
}

// Observer receives view-state updates from the poll loop. Callbacks run on
// the poller goroutine; implementations must not block.
type Observer interface {
	// OnUpdate fires after each successful status merge.
	OnUpdate(episode *models.Episode)

	// OnComplete fires exactly once, after the one-time full fetch that
	// follows the first terminal status. episode carries the result payload
	// when the full fetch succeeded, otherwise the merged local state.
	OnComplete(episode *models.Episode)
}

// ObserverFuncs adapts plain functions to the Observer interface.
type ObserverFuncs struct {
	Update   func(episode *models.Episode)
	Complete func(episode *models.Episode)
}

func (o ObserverFuncs) OnUpdate(episode *models.Episode) {
	if o.Update != nil {
		o.Update(episode)
	}
}

func (o ObserverFuncs) OnComplete(episode *models.Episode) {
	if o.Complete != nil {
		o.Complete(episode)
	}
}
