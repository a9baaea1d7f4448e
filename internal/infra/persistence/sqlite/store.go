// Package sqlite persists snapshots to an embedded SQLite database, one JSON
// payload per collection. The open database handle lives for the lifetime of
// the store and is released by Close.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"depotcore/pkg/domain"
)

var _ domain.Backend = (*Store)(nil)

const metaBucket = "__meta__"

type metaPayload struct {
	Version int `json:"version"`
}

// Store snapshots the full state into a single `state` table keyed by
// collection name. Writers within one process serialize on mu; SQLite's own
// file locking guards cross-process writers.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "depotcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, fs.ErrExist) {
			return nil, domain.DBError(fmt.Errorf("create dirs: %w", err))
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.DBError(fmt.Errorf("open sqlite: %w", err))
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, domain.DBError(fmt.Errorf("create state table: %w", err))
	}
	return &Store{db: db, path: path}, nil
}

// Load reconstructs the snapshot from the state table. An empty table yields
// an empty snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return domain.Snapshot{}, domain.DBError(fmt.Errorf("select state: %w", err))
	}
	defer func() { _ = rows.Close() }()

	snap := domain.NewSnapshot()
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return domain.Snapshot{}, domain.DBError(fmt.Errorf("scan: %w", err))
		}
		if bucket == metaBucket {
			var meta metaPayload
			if err := json.Unmarshal(payload, &meta); err != nil {
				return domain.Snapshot{}, domain.ReadError(fmt.Errorf("decode meta: %w", err))
			}
			if meta.Version != 0 {
				snap.Version = meta.Version
			}
			continue
		}
		var records map[int64]domain.Record
		if err := json.Unmarshal(payload, &records); err != nil {
			return domain.Snapshot{}, domain.ReadError(fmt.Errorf("decode %s: %w", bucket, err))
		}
		snap.Data[bucket] = records
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, domain.DBError(err)
	}
	return snap, nil
}

// Save replaces the persisted state with the snapshot inside one sql
// transaction, so readers observe either the old state or the new one.
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.DBError(err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM state`); err != nil {
		return domain.DBError(fmt.Errorf("clear state: %w", err))
	}

	version := snap.Version
	if version == 0 {
		version = domain.CurrentSnapshotVersion
	}
	meta, err := json.Marshal(metaPayload{Version: version})
	if err != nil {
		return domain.WriteError(err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket, payload) VALUES(?, ?)`, metaBucket, meta); err != nil {
		return domain.DBError(fmt.Errorf("insert meta: %w", err))
	}

	for bucket, records := range snap.Data {
		payload, err := json.Marshal(records)
		if err != nil {
			return domain.WriteError(err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket, payload) VALUES(?, ?)`, bucket, payload); err != nil {
			return domain.DBError(fmt.Errorf("insert %s: %w", bucket, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.DBError(err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }
