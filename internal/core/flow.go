package core

import (
	"context"
	"time"

	"depotcore/pkg/domain"
)

// Flow binds repo operations to an environment. Each call opens the env's
// backend if needed, runs the operation as a full read-modify-write cycle
// (mutations) or a plain read (queries), and folds the outcome into a
// Result. The env stays open across calls; callers close it when done.
type Flow[T any] struct {
	repo Repo[T]
	rt   *Runtime
}

// NewFlow constructs a flow for the spec's collection.
func NewFlow[T any](spec domain.Spec[T], rt *Runtime) Flow[T] {
	if rt == nil {
		rt = NewRuntime()
	}
	return Flow[T]{repo: NewRepo(spec), rt: rt}
}

// Repo exposes the underlying pure engine, mainly for tests.
func (f Flow[T]) Repo() Repo[T] { return f.repo }

func (f Flow[T]) observe(ctx context.Context, op string, err error, started int64) {
	name := f.repo.Spec().Table + "." + op
	elapsed := time.Duration(f.rt.clock.Now().UnixNano() - started)
	f.rt.metrics.Observe(ctx, name, err == nil, elapsed)
	if err != nil {
		f.rt.logger.Debug("operation failed", "operation", name, "code", err.Error())
		return
	}
	f.rt.logger.Debug("operation ok", "operation", name)
}

// mutate runs the full read-modify-write cycle: load the whole snapshot,
// apply the pure transform, persist the result.
func (f Flow[T]) mutate(ctx context.Context, env *domain.Env, op string, apply func(domain.Snapshot) (domain.Snapshot, error)) error {
	started := f.rt.clock.Now().UnixNano()
	err := func() error {
		backend, err := openEnv(env)
		if err != nil {
			return domain.DBError(err)
		}
		snap, err := backend.Load(ctx)
		if err != nil {
			return err
		}
		next, err := apply(snap)
		if err != nil {
			return err
		}
		return backend.Save(ctx, next)
	}()
	f.observe(ctx, op, err, started)
	return err
}

// read loads the snapshot without taking the write lock and applies a pure
// query to it.
func (f Flow[T]) read(ctx context.Context, env *domain.Env, op string, apply func(domain.Snapshot) error) error {
	started := f.rt.clock.Now().UnixNano()
	err := func() error {
		backend, err := openEnv(env)
		if err != nil {
			return domain.DBError(err)
		}
		snap, err := backend.Load(ctx)
		if err != nil {
			return err
		}
		return apply(snap)
	}()
	f.observe(ctx, op, err, started)
	return err
}

// Create inserts obj and returns it unchanged on success.
func (f Flow[T]) Create(ctx context.Context, env *domain.Env, obj T) domain.Result[T] {
	err := f.mutate(ctx, env, "create", func(snap domain.Snapshot) (domain.Snapshot, error) {
		return f.repo.Create(env, snap, obj)
	})
	return domain.ResultOf(obj, err)
}

// Upsert inserts or replaces obj.
func (f Flow[T]) Upsert(ctx context.Context, env *domain.Env, obj T) domain.Result[T] {
	err := f.mutate(ctx, env, "upsert", func(snap domain.Snapshot) (domain.Snapshot, error) {
		return f.repo.Upsert(env, snap, obj)
	})
	return domain.ResultOf(obj, err)
}

// Update replaces an existing record.
func (f Flow[T]) Update(ctx context.Context, env *domain.Env, obj T) domain.Result[T] {
	err := f.mutate(ctx, env, "update", func(snap domain.Snapshot) (domain.Snapshot, error) {
		return f.repo.Update(env, snap, obj)
	})
	return domain.ResultOf(obj, err)
}

// Delete removes the record at id and returns the deleted id.
func (f Flow[T]) Delete(ctx context.Context, env *domain.Env, id int64) domain.Result[int64] {
	err := f.mutate(ctx, env, "delete", func(snap domain.Snapshot) (domain.Snapshot, error) {
		return f.repo.Delete(snap, id)
	})
	return domain.ResultOf(id, err)
}

// Get fetches the typed record at id.
func (f Flow[T]) Get(ctx context.Context, env *domain.Env, id int64) domain.Result[T] {
	var out T
	err := f.read(ctx, env, "get", func(snap domain.Snapshot) error {
		var err error
		out, err = f.repo.Get(snap, id)
		return err
	})
	return domain.ResultOf(out, err)
}

// List fetches all records of the collection.
func (f Flow[T]) List(ctx context.Context, env *domain.Env) domain.Result[[]T] {
	var out []T
	err := f.read(ctx, env, "list", func(snap domain.Snapshot) error {
		var err error
		out, err = f.repo.List(snap)
		return err
	})
	return domain.ResultOf(out, err)
}

// GetBy fetches the first record whose field matches value.
func (f Flow[T]) GetBy(ctx context.Context, env *domain.Env, field string, value any, nocase bool) domain.Result[T] {
	var out T
	err := f.read(ctx, env, "get_by", func(snap domain.Snapshot) error {
		var err error
		out, err = f.repo.GetBy(snap, field, value, nocase)
		return err
	})
	return domain.ResultOf(out, err)
}

// GetByUnique fetches by field using the case sensitivity its unique rule
// declares.
func (f Flow[T]) GetByUnique(ctx context.Context, env *domain.Env, field string, value any) domain.Result[T] {
	var out T
	err := f.read(ctx, env, "get_by_unique", func(snap domain.Snapshot) error {
		var err error
		out, err = f.repo.GetByUnique(snap, field, value)
		return err
	})
	return domain.ResultOf(out, err)
}

// LookupIDBy resolves the id of the first record whose field matches value.
func (f Flow[T]) LookupIDBy(ctx context.Context, env *domain.Env, field string, value any, nocase bool) domain.Result[int64] {
	var out int64
	err := f.read(ctx, env, "lookup_id_by", func(snap domain.Snapshot) error {
		var err error
		out, err = f.repo.LookupIDBy(snap, field, value, nocase)
		return err
	})
	return domain.ResultOf(out, err)
}

// ExistsBy reports whether any record's field matches value.
func (f Flow[T]) ExistsBy(ctx context.Context, env *domain.Env, field string, value any, nocase bool) domain.Result[bool] {
	var out bool
	err := f.read(ctx, env, "exists_by", func(snap domain.Snapshot) error {
		out = f.repo.ExistsBy(snap, field, value, nocase)
		return nil
	})
	return domain.ResultOf(out, err)
}
