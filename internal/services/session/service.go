package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/podbrief/podbrief/internal/models"
)

// Service holds the process-wide auth session. Many readers, one writer:
// only SetAuth and Logout mutate the state.
type Service struct {
	mu    sync.RWMutex
	store Store
	state *State
}

// NewService creates a session service backed by the given store and loads
// any persisted session. Load failures leave the session signed out.
func NewService(store Store) *Service {
	s := &Service{store: store}

	state, err := store.Load()
	if err != nil {
		log.Printf("[DEBUG] Failed to load session, starting signed out: %v", err)
		return s
	}
	s.state = state
	return s
}

// Token returns the current bearer token, or empty when signed out.
// Implements backend.TokenSource.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.Token
}

// User returns the signed-in user, or nil.
func (s *Service) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil
	}
	return s.state.User
}

// SignedIn reports whether a token is present.
func (s *Service) SignedIn() bool {
	return s.Token() != ""
}

// SetAuth stores a fresh token/user pair in memory and persists it.
func (s *Service) SetAuth(auth *models.AuthResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := auth.User
	s.state = &State{Token: auth.Token, User: &user}

	if err := s.store.Save(s.state); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// Logout clears the session in memory and in the store.
func (s *Service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = nil
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
