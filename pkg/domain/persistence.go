package domain

import (
	"context"
	"sync"
)

// Backend is the minimal abstraction over durable snapshot storage. Load
// returns an empty snapshot when no state has been written yet; that is not
// an error. Save persists the full snapshot atomically.
type Backend interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}

// Env carries the storage configuration for one logical store: the backing
// data path, an optional advisory lock path, and the selected driver name.
// The backend handle is opened lazily by the core layer and cached here;
// Close flushes and releases it. Env is a pass-through context, not a hidden
// singleton: every operation receives it explicitly.
type Env struct {
	DataPath string
	LockPath string
	Driver   string

	mu      sync.Mutex
	backend Backend
}

// Backend returns the cached handle, or nil when the env is not yet open.
func (e *Env) Backend() Backend {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backend
}

// Bind installs an opened backend handle. An already-bound env keeps its
// existing handle; the caller's duplicate is closed.
func (e *Env) Bind(b Backend) Backend {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.backend != nil {
		_ = b.Close()
		return e.backend
	}
	e.backend = b
	return b
}

// Close releases the cached handle, if any. The env may be reopened after.
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.backend == nil {
		return nil
	}
	err := e.backend.Close()
	e.backend = nil
	return err
}
