// Package config persists the user's device selection between runs.
//
// The store is a single small JSON document in a platform-appropriate
// per-application directory. An absent or unreadable document means
// "no preference", never an error.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const fileName = "config.json"

// Selection is the persisted document. Currently a single field.
type Selection struct {
	SelectedSerial string `json:"selected_serial,omitempty"`
}

// Store reads and writes the selection document at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store rooted at the platform config directory,
// creating the directory if needed.
func NewStore() (*Store, error) {
	dir := configDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create config dir %s", dir)
	}
	return &Store{path: filepath.Join(dir, fileName)}, nil
}

// NewStoreAt returns a Store using an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted selection. Missing or corrupt files yield the
// zero selection.
func (s *Store) Load() Selection {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Selection{}
	}
	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return Selection{}
	}
	return sel
}

// Save writes the selection document.
func (s *Store) Save(sel Selection) error {
	data, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal selection")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", s.path)
	}
	return nil
}

// Reset deletes the persisted document. Already-absent is not an error.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", s.path)
	}
	return nil
}
