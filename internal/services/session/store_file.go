package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the session as a JSON document at a fixed path,
// the CLI analogue of browser local storage.
type FileStore struct {
	path string
}

// Ensure FileStore implements Store interface
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed session store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted session. A missing or unreadable file is treated
// as signed-out rather than an error.
func (s *FileStore) Load() (*State, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		// Corrupt session files are discarded, not surfaced
		return nil, nil
	}
	if state.Token == "" {
		return nil, nil
	}
	return &state, nil
}

// Save writes the session document with owner-only permissions.
func (s *FileStore) Save(state *State) error {
	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}
	}

	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
