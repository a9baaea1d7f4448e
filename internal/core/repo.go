package core

import (
	"fmt"
	"strings"

	"depotcore/pkg/domain"
)

// Repo is the generic CRUD engine for one collection. Every operation is a
// pure function over a snapshot: mutations return a new snapshot built by
// copying the touched collection, never editing rows in place.
type Repo[T any] struct {
	spec domain.Spec[T]
}

// NewRepo binds the engine to a collection spec.
func NewRepo[T any](spec domain.Spec[T]) Repo[T] {
	return Repo[T]{spec: spec}
}

// Spec returns the descriptor the repo operates with.
func (r Repo[T]) Spec() domain.Spec[T] { return r.spec }

func (r Repo[T]) encode(obj T) (domain.Record, int64, error) {
	rec, err := r.spec.EncodeRecord(obj)
	if err != nil {
		return nil, 0, domain.WriteError(err)
	}
	id, ok := domain.RecordID(rec)
	if !ok {
		return nil, 0, fmt.Errorf("%s record missing integer id", r.spec.Table)
	}
	return rec, id, nil
}

func copyRows(rows map[int64]domain.Record) map[int64]domain.Record {
	out := make(map[int64]domain.Record, len(rows)+1)
	for id, rec := range rows {
		out[id] = rec
	}
	return out
}

// Create inserts obj, failing with id_exists on an id collision and with the
// first validation failure otherwise. The object is returned unchanged.
func (r Repo[T]) Create(env *domain.Env, snap domain.Snapshot, obj T) (domain.Snapshot, error) {
	rec, id, err := r.encode(obj)
	if err != nil {
		return domain.Snapshot{}, err
	}
	rows := snap.Collection(r.spec.Table)
	if _, exists := rows[id]; exists {
		return domain.Snapshot{}, domain.ErrIDExists
	}
	if code := validate(env, r.spec, rows, obj, rec, nil); code != "" {
		return domain.Snapshot{}, domain.Failure(code)
	}
	next := copyRows(rows)
	next[id] = rec
	return snap.WithCollection(r.spec.Table, next), nil
}

// Upsert inserts or overwrites the record at the object's id, validating with
// the object's own id excluded from uniqueness comparison.
func (r Repo[T]) Upsert(env *domain.Env, snap domain.Snapshot, obj T) (domain.Snapshot, error) {
	rec, id, err := r.encode(obj)
	if err != nil {
		return domain.Snapshot{}, err
	}
	rows := snap.Collection(r.spec.Table)
	if code := validate(env, r.spec, rows, obj, rec, &id); code != "" {
		return domain.Snapshot{}, domain.Failure(code)
	}
	next := copyRows(rows)
	next[id] = rec
	return snap.WithCollection(r.spec.Table, next), nil
}

// Update overwrites an existing record, failing with not_found when the id is
// absent.
func (r Repo[T]) Update(env *domain.Env, snap domain.Snapshot, obj T) (domain.Snapshot, error) {
	rec, id, err := r.encode(obj)
	if err != nil {
		return domain.Snapshot{}, err
	}
	rows := snap.Collection(r.spec.Table)
	if _, exists := rows[id]; !exists {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	if code := validate(env, r.spec, rows, obj, rec, &id); code != "" {
		return domain.Snapshot{}, domain.Failure(code)
	}
	next := copyRows(rows)
	next[id] = rec
	return snap.WithCollection(r.spec.Table, next), nil
}

// Delete removes the record at id, failing with not_found when absent.
func (r Repo[T]) Delete(snap domain.Snapshot, id int64) (domain.Snapshot, error) {
	rows := snap.Collection(r.spec.Table)
	if _, exists := rows[id]; !exists {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	next := copyRows(rows)
	delete(next, id)
	return snap.WithCollection(r.spec.Table, next), nil
}

// Get returns the typed object stored at id.
func (r Repo[T]) Get(snap domain.Snapshot, id int64) (T, error) {
	var zero T
	rec, ok := snap.Collection(r.spec.Table)[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	return r.spec.DecodeRecord(rec)
}

// List returns all records in the collection as typed objects. Iteration
// order follows the stored map and is not guaranteed to be stable.
func (r Repo[T]) List(snap domain.Snapshot) ([]T, error) {
	rows := snap.Collection(r.spec.Table)
	out := make([]T, 0, len(rows))
	for _, rec := range rows {
		obj, err := r.spec.DecodeRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// matchField reports whether a row's field equals value, comparing canonical
// string forms and case-folding when nocase is set. Stored numerics are
// JSON-decoded float64s, so both sides go through the same fixed decimal
// rendering before comparison.
func matchField(rec domain.Record, field string, value any, nocase bool) bool {
	stored, ok := rec[field]
	if !ok || stored == nil {
		return value == nil
	}
	if value == nil {
		return false
	}
	a, b := canonicalString(stored), canonicalString(value)
	if nocase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func (r Repo[T]) findBy(snap domain.Snapshot, field string, value any, nocase bool) (domain.Record, bool) {
	for _, rec := range snap.Collection(r.spec.Table) {
		if matchField(rec, field, value, nocase) {
			return rec, true
		}
	}
	return nil, false
}

// GetBy returns the first record whose field matches value.
func (r Repo[T]) GetBy(snap domain.Snapshot, field string, value any, nocase bool) (T, error) {
	var zero T
	rec, ok := r.findBy(snap, field, value, nocase)
	if !ok {
		return zero, domain.ErrNotFound
	}
	return r.spec.DecodeRecord(rec)
}

// LookupIDBy returns the id of the first record whose field matches value.
// A matched row lacking an id fails with corrupt_row; the id invariant makes
// that unreachable short of store corruption.
func (r Repo[T]) LookupIDBy(snap domain.Snapshot, field string, value any, nocase bool) (int64, error) {
	rec, ok := r.findBy(snap, field, value, nocase)
	if !ok {
		return 0, domain.ErrNotFound
	}
	id, ok := domain.RecordID(rec)
	if !ok {
		return 0, domain.ErrCorruptRow
	}
	return id, nil
}

// ExistsBy reports whether any record's field matches value. It never fails.
func (r Repo[T]) ExistsBy(snap domain.Snapshot, field string, value any, nocase bool) bool {
	_, ok := r.findBy(snap, field, value, nocase)
	return ok
}

// GetByUnique looks the field up with the case sensitivity declared by the
// spec's unique rules.
func (r Repo[T]) GetByUnique(snap domain.Snapshot, field string, value any) (T, error) {
	return r.GetBy(snap, field, value, r.spec.NoCaseFor(field))
}
