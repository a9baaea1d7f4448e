package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"depotcore/pkg/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	snap := domain.NewSnapshot()
	snap.Data["products"] = map[int64]domain.Record{
		1: {"id": float64(1), "sku": "ABC", "price": float64(10)},
	}
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	back, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.Version != domain.CurrentSnapshotVersion {
		t.Fatalf("expected version %d, got %d", domain.CurrentSnapshotVersion, back.Version)
	}
	rec, ok := back.Data["products"][1]
	if !ok {
		t.Fatalf("missing row: %v", back.Data)
	}
	if rec["sku"] != "ABC" {
		t.Fatalf("expected ABC, got %v", rec["sku"])
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	ctx := context.Background()

	snap := domain.NewSnapshot()
	snap.Data["users"] = map[int64]domain.Record{7: {"id": float64(7), "name": "Alice"}}
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	back, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := back.Data["users"][7]; !ok {
		t.Fatalf("row lost across reopen: %v", back.Data)
	}
}

func TestSQLiteEmptyDatabaseLoadsEmptySnapshot(t *testing.T) {
	store := openStore(t)
	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Data) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap.Data)
	}
}

func TestSQLiteSaveReplacesState(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := domain.NewSnapshot()
	first.Data["users"] = map[int64]domain.Record{1: {"id": float64(1)}}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := domain.NewSnapshot()
	second.Data["products"] = map[int64]domain.Record{2: {"id": float64(2)}}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	back, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := back.Data["users"]; ok {
		t.Fatalf("stale bucket survived: %v", back.Data)
	}

	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	// One meta row plus one collection row.
	if count != 2 {
		t.Fatalf("expected 2 state rows, got %d", count)
	}
}
