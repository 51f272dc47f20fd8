package state

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnknownKey is returned when updating a key that was never initialized
var ErrUnknownKey = errors.New("unknown state key")

// The two keys every store carries. The key set is fixed at construction;
// values are replaced, keys are never added or deleted.
const (
	KeyAnimation  = "animation"
	KeyLastLocked = "last_locked_animation"
)

// Store is the shared mutable state read and written by every component on a
// device. It holds exactly two keys: the currently selected animation name
// (string or nil) and the wall-clock time of the most recent pause request
// (time.Time or nil).
//
// Components run as goroutines rather than cooperatively scheduled tasks, so
// both operations take an explicit lock; Snapshot returns a copy, never a live
// reference, so a reader can never observe a partial update.
type Store struct {
	mu   sync.RWMutex
	data map[string]any
}

// New creates a store with both keys present and nil.
func New() *Store {
	return &Store{
		data: map[string]any{
			KeyAnimation:  nil,
			KeyLastLocked: nil,
		},
	}
}

// Update replaces the value for an existing key.
// Returns ErrUnknownKey if the key was never initialized.
func (s *Store) Update(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	s.data[key] = value
	return nil
}

// Snapshot returns a copy of the full mapping at the instant of the call.
// Values are immutable scalars (string, time.Time, nil), so a shallow copy is
// a full copy.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]any, len(s.data))
	for k, v := range s.data {
		snap[k] = v
	}
	return snap
}

// Animation returns the current animation name, or ok=false when none has
// been selected yet.
func (s *Store) Animation() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.data[KeyAnimation].(string)
	return name, ok
}

// LastLocked returns the time of the most recent pause request, or ok=false
// when no pause was ever requested.
func (s *Store) LastLocked() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.data[KeyLastLocked].(time.Time)
	return ts, ok
}
