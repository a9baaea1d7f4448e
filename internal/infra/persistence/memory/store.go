// Package memory provides an in-memory snapshot store used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"sync"

	"depotcore/pkg/domain"
)

var _ domain.Backend = (*Store)(nil)

// Store keeps the snapshot in process memory. Load and Save exchange deep
// clones so callers can never alias the stored state.
type Store struct {
	mu    sync.RWMutex
	state domain.Snapshot
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{state: domain.NewSnapshot()}
}

// Load returns a deep clone of the current state.
func (s *Store) Load(_ context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

// Save replaces the state with a deep clone of snap.
func (s *Store) Save(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snap.Clone()
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
