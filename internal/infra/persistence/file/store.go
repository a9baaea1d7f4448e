// Package file persists the snapshot as a single human-diffable JSON file,
// rewritten wholesale on every save via an atomic temp-file rename.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"depotcore/pkg/domain"
)

var _ domain.Backend = (*Store)(nil)

// Store is a file-backed snapshot store. When lockPath is non-empty, saves
// hold a cross-process advisory lock for the duration of the write; reads
// never take the lock and rely on the rename for consistency.
type Store struct {
	dataPath string
	lockPath string
}

// NewStore constructs a store writing to dataPath. lockPath may be empty to
// disable cross-process locking.
func NewStore(dataPath, lockPath string) *Store {
	return &Store{dataPath: dataPath, lockPath: lockPath}
}

// Load reads and deserializes the full snapshot. A missing file yields an
// empty snapshot at the current format version.
func (s *Store) Load(_ context.Context) (domain.Snapshot, error) {
	raw, err := os.ReadFile(s.dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewSnapshot(), nil
	}
	if err != nil {
		return domain.Snapshot{}, domain.ReadError(err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, domain.ReadError(err)
	}
	if snap.Data == nil {
		snap.Data = map[string]map[int64]domain.Record{}
	}
	if snap.Version == 0 {
		snap.Version = domain.CurrentSnapshotVersion
	}
	return snap, nil
}

// Save serializes the snapshot and writes it atomically under the configured
// lock. A crash mid-save leaves either the old file or the new one, never a
// partial mix.
func (s *Store) Save(_ context.Context, snap domain.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.dataPath), 0o750); err != nil && !errors.Is(err, fs.ErrExist) {
		return domain.WriteError(err)
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return domain.WriteError(err)
	}
	if s.lockPath == "" {
		if err := atomicWrite(s.dataPath, payload); err != nil {
			return domain.WriteError(err)
		}
		return nil
	}
	lock := flock.New(s.lockPath)
	if err := lock.Lock(); err != nil {
		return domain.WriteError(err)
	}
	defer func() { _ = lock.Unlock() }()
	if err := atomicWrite(s.dataPath, payload); err != nil {
		return domain.WriteError(err)
	}
	return nil
}

// Close is a no-op; the store holds no persistent handle.
func (s *Store) Close() error { return nil }

// atomicWrite streams data to a temp sibling, forces it to stable storage,
// then renames over the target path.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
