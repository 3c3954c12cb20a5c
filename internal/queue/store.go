package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// storeFile is the on-disk shape: a single serialized list of pending items
// under one well-known key.
type storeFile struct {
	Pending []PendingItem `json:"pending"`
}

// Store persists the pending queue as one JSON file. The full list is loaded
// on construction and rewritten on every mutation; writes are atomic
// (temp file + rename) so a crash never leaves a half-written store.
type Store struct {
	path string
}

// NewStore creates a store handle for the given file path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	return &Store{path: path}, nil
}

// Path returns the store's file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full pending list. A missing file is an empty queue. A
// corrupt file is backed up alongside the store and treated as empty, so a
// damaged store never blocks new captures.
func (s *Store) Load() ([]PendingItem, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []PendingItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read queue store %s: %w", s.path, err)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		backup := s.path + ".corrupt"
		_ = os.Rename(s.path, backup)
		return []PendingItem{}, fmt.Errorf("corrupt queue store %s (backed up to %s): %w", s.path, backup, err)
	}
	if f.Pending == nil {
		f.Pending = []PendingItem{}
	}
	return f.Pending, nil
}

// Save rewrites the full pending list atomically.
func (s *Store) Save(items []PendingItem) error {
	if items == nil {
		items = []PendingItem{}
	}
	data, err := json.MarshalIndent(storeFile{Pending: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal queue store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create queue store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write queue store temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename queue store temp file: %w", err)
	}
	return nil
}
