package poller

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/podbrief/podbrief/internal/models"
)

// DefaultInterval is the fixed delay between status polls.
const DefaultInterval = 2 * time.Second

// Poller reconciles local episode view state with backend state until the
// episode reaches a terminal status. One Poller tracks one episode; it is
// torn down when the consuming view goes away.
//
// Scheduling uses interval semantics: a ticker fires every interval from
// poll start, and a tick that arrives while a request is still in flight is
// skipped, so at most one status request is outstanding at any time.
type Poller struct {
	client   StatusFetcher
	interval time.Duration
	observer Observer

	mu      sync.Mutex
	episode *models.Episode

	inFlight atomic.Bool
	done     atomic.Bool

	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Option is a functional option for configuring the poller
type Option func(*Poller)

// WithInterval overrides the poll interval.
func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithObserver registers the update/complete callbacks.
func WithObserver(observer Observer) Option {
	return func(p *Poller) {
		p.observer = observer
	}
}

// WithInitialState seeds already-known episode fields (e.g. a title from a
// search card) so partial status merges preserve them.
func WithInitialState(episode *models.Episode) Option {
	return func(p *Poller) {
		if episode != nil {
			copied := *episode
			p.episode = &copied
		}
	}
}

// New creates a poller for one episode view.
func New(client StatusFetcher, opts ...Option) *Poller {
	p := &Poller{
		client:   client,
		interval: DefaultInterval,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the poll loop for the given episode id. It polls once
// immediately, then on every interval tick until a terminal status is
// observed or the poller is stopped.
func (p *Poller) Start(ctx context.Context, episodeID string) {
	p.mu.Lock()
	if p.episode == nil {
		p.episode = &models.Episode{ID: episodeID, Status: models.StatusPending}
	}
	p.episode.ID = episodeID
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx, episodeID)
}

// Stop tears the poll loop down. Safe to call more than once; no requests
// fire after it returns.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
	p.wg.Wait()
}

// Episode returns a copy of the current merged view state.
func (p *Poller) Episode() *models.Episode {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.episode == nil {
		return nil
	}
	copied := *p.episode
	return &copied
}

// Done reports whether the poller has observed a terminal status.
func (p *Poller) Done() bool {
	return p.done.Load()
}

func (p *Poller) run(ctx context.Context, episodeID string) {
	defer p.wg.Done()

	// Immediate first poll, then the interval ticker
	if p.pollOnce(ctx, episodeID) {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.C:
			if p.inFlight.Load() {
				// Previous request still outstanding, skip this tick
				continue
			}
			if p.pollOnce(ctx, episodeID) {
				return
			}
		}
	}
}

// pollOnce issues a single status request and merges the result. It returns
// true when the loop should stop (terminal status reached or ctx canceled).
func (p *Poller) pollOnce(ctx context.Context, episodeID string) bool {
	p.inFlight.Store(true)
	defer p.inFlight.Store(false)

	status, err := p.client.GetStatus(ctx, episodeID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		// A missed tick is transient; keep polling unchanged
		log.Printf("[DEBUG] Poll tick failed for episode %s: %v", episodeID, err)
		return false
	}

	episode := p.merge(status)
	if p.observer != nil {
		p.observer.OnUpdate(episode)
	}

	if !status.Status.IsTerminal() {
		return false
	}

	p.finish(ctx, episodeID)
	return true
}

// merge applies a lightweight status response onto the local view state,
// updating only the fields the response carries. Progress is clamped
// non-decreasing while the episode is still processing.
func (p *Poller) merge(status *models.EpisodeStatus) *models.Episode {
	p.mu.Lock()
	defer p.mu.Unlock()

	episode := p.episode
	episode.Status = status.Status
	episode.StatusMessage = status.StatusMessage
	episode.Error = status.Error

	if status.Status == models.StatusFailed || status.Progress >= episode.Progress {
		episode.Progress = status.Progress
	}
	if status.DurationSeconds != nil {
		episode.DurationSeconds = status.DurationSeconds
	}

	copied := *episode
	return &copied
}

// finish performs the one-time full fetch after the first terminal status
// and notifies the observer. It runs at most once per poller.
func (p *Poller) finish(ctx context.Context, episodeID string) {
	if !p.done.CompareAndSwap(false, true) {
		return
	}

	full, err := p.client.GetEpisode(ctx, episodeID)
	if err != nil {
		log.Printf("[ERROR] Full fetch after terminal status failed for episode %s: %v", episodeID, err)
		if p.observer != nil {
			p.observer.OnComplete(p.Episode())
		}
		return
	}

	p.mu.Lock()
	p.episode = full
	p.mu.Unlock()

	if p.observer != nil {
		p.observer.OnComplete(p.Episode())
	}
}
