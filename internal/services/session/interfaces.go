package session

import "github.com/podbrief/podbrief/internal/models"

// State is the persisted session document: token plus the user it belongs to.
type State struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// Store abstracts session persistence so the mechanism is swappable
// without touching consumers.
type Store interface {
	Load() (*State, error)
	Save(state *State) error
	Clear() error
}
