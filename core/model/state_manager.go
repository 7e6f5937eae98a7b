// Package model provides versioned state management for smoothers.
package model

import (
	"sync"
)

// StateManager guards a configuration and the values derived from it.
//
// Every successful mutation bumps the version; derived values are stale until
// Rebuild records the current version as built. Readers run under the read
// lock, mutations and rebuilds under the write lock.
type StateManager struct {
	mu      sync.RWMutex
	version uint64
	built   uint64
}

// NewStateManager creates a StateManager at version 1 with nothing built.
func NewStateManager() *StateManager {
	return &StateManager{version: 1}
}

// Version returns the configuration version.
func (s *StateManager) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// VersionLocked returns the version without taking the lock. Call it only
// from inside a WithState, WithStateMut or Rebuild callback.
func (s *StateManager) VersionLocked() uint64 {
	return s.version
}

// IsStale reports whether derived values lag behind the configuration.
func (s *StateManager) IsStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built != s.version
}

// State is a point-in-time view of the manager.
type State struct {
	Version uint64 `json:"version"`
	Built   uint64 `json:"built"`
}

// GetState returns the current state.
func (s *StateManager) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Version: s.version, Built: s.built}
}

// WithState executes fn with the state locked for reading.
func (s *StateManager) WithState(fn func(stale bool) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.built != s.version)
}

// WithStateMut executes fn with the state locked for writing.
// The version is bumped only when fn succeeds, so a rejected update leaves
// derived values valid.
func (s *StateManager) WithStateMut(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	s.version++
	return nil
}

// Rebuild executes fn with the state locked for writing. fn is told whether
// derived values are stale; if it succeeds they are marked built.
// Concurrent callers that lose the race see stale == false.
func (s *StateManager) Rebuild(fn func(stale bool) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.built != s.version); err != nil {
		return err
	}
	s.built = s.version
	return nil
}
