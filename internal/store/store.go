// Package store persists the canonical event collection as a single JSON
// array, read and rewritten whole on every merge.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rxwatch/catalyst/internal/model"
)

// Store is a file-backed event collection. The file is the sole durable
// state of the tracker.
type Store struct {
	path string
}

// New returns a store at the given path. The file need not exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full collection. An absent file is an empty store.
// Corrupt content is also treated as empty: the damage is discarded on the
// next save, not repaired.
func (s *Store) Load() ([]model.Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Event{}, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return []model.Event{}, nil
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// Save rewrites the full collection. The write goes to a temp file in the
// same directory and is renamed into place, so a crashed run never leaves
// a half-written store.
func (s *Store) Save(events []model.Event) error {
	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Update runs fn inside the store's critical section: lock, load, apply,
// save, unlock. Concurrent runs serialize here; nothing else writes the
// file. fn receives the current collection and returns the replacement.
func (s *Store) Update(fn func(events []model.Event) ([]model.Event, error)) error {
	unlock, err := s.lock(10 * time.Second)
	if err != nil {
		return err
	}
	defer unlock()

	events, err := s.Load()
	if err != nil {
		return err
	}
	updated, err := fn(events)
	if err != nil {
		return err
	}
	return s.Save(updated)
}

// lock acquires an advisory lock file next to the store, retrying until
// the wait budget runs out. A lock older than its own wait budget is
// presumed abandoned by a crashed run and is broken.
func (s *Store) lock(wait time.Duration) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	deadline := time.Now().Add(wait)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("acquire store lock: %w", err)
		}

		if info, statErr := os.Stat(lockPath); statErr == nil && time.Since(info.ModTime()) > wait {
			_ = os.Remove(lockPath)
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("acquire store lock: %s held past deadline", lockPath)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
