package speakers

import (
	"context"
	"errors"
	"fmt"

	"github.com/podbrief/podbrief/internal/models"
)

// SpeakerUpdater is the slice of the backend client the editor needs.
type SpeakerUpdater interface {
	UpdateSpeakers(ctx context.Context, episodeID string, req models.SpeakerUpdateRequest) error
}

// ErrNoChanges indicates a save was attempted with nothing renamed.
var ErrNoChanges = errors.New("no speaker names changed")

// Editor tracks per-label rename state for one episode's roster.
type Editor struct {
	episodeID string
	client    SpeakerUpdater
	original  map[string]string
	assigned  map[string]string
	roster    []Speaker
}

// NewEditor builds an editor over the roster derived from the transcript.
func NewEditor(client SpeakerUpdater, episodeID string, segments []models.TranscriptSegment) *Editor {
	roster := BuildRoster(segments)

	original := make(map[string]string, len(roster))
	assigned := make(map[string]string, len(roster))
	for _, sp := range roster {
		original[sp.Label] = sp.Name
		assigned[sp.Label] = sp.Name
	}

	return &Editor{
		episodeID: episodeID,
		client:    client,
		original:  original,
		assigned:  assigned,
		roster:    roster,
	}
}

// Roster returns the speakers with their currently assigned names, in
// descending segment-count order.
func (e *Editor) Roster() []Speaker {
	out := make([]Speaker, len(e.roster))
	copy(out, e.roster)
	for i := range out {
		out[i].Name = e.assigned[out[i].Label]
	}
	return out
}

// Assign sets the display name for a label. Unknown labels are rejected.
func (e *Editor) Assign(label, name string) error {
	if _, ok := e.assigned[label]; !ok {
		return fmt.Errorf("unknown speaker label %q", label)
	}
	if name == "" {
		return errors.New("speaker name cannot be empty")
	}
	e.assigned[label] = name
	return nil
}

// Dirty reports whether any label's assigned name differs from the original
// detected name. Gates the save action.
func (e *Editor) Dirty() bool {
	for label, name := range e.assigned {
		if name != e.original[label] {
			return true
		}
	}
	return false
}

// Changes returns only the label→name pairs that differ from the originals.
func (e *Editor) Changes() map[string]string {
	changes := make(map[string]string)
	for label, name := range e.assigned {
		if name != e.original[label] {
			changes[label] = name
		}
	}
	return changes
}

// Save submits the changed names. Saving with zero changes is a no-op
// error so callers keep the control disabled. On success the originals are
// rebased; the caller should refetch the episode so segments pick up the
// new names.
func (e *Editor) Save(ctx context.Context) error {
	changes := e.Changes()
	if len(changes) == 0 {
		return ErrNoChanges
	}

	req := models.SpeakerUpdateRequest{SpeakerMap: changes}
	if err := e.client.UpdateSpeakers(ctx, e.episodeID, req); err != nil {
		return fmt.Errorf("saving speaker names: %w", err)
	}

	for label, name := range changes {
		e.original[label] = name
	}
	return nil
}
