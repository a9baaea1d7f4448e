// Package core implements the generic repository engine: environment
// lifecycle, the validation pipeline, pure snapshot transforms, and the flow
// layer binding operations to a persistence backend.
package core

import (
	"fmt"
	"os"

	"depotcore/internal/infra/persistence/file"
	"depotcore/internal/infra/persistence/memory"
	"depotcore/internal/infra/persistence/sqlite"
	"depotcore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory StorageDriver = "memory" // in-memory only (tests / ephemeral)
	StorageFile   StorageDriver = "file"   // single JSON file, atomic rename
	StorageSQLite StorageDriver = "sqlite" // embedded sqlite database
)

// NewEnv builds an environment for the given driver and paths.
func NewEnv(driver StorageDriver, dataPath, lockPath string) *domain.Env {
	return &domain.Env{Driver: string(driver), DataPath: dataPath, LockPath: lockPath}
}

// EnvFromOS selects a backend configuration from environment variables.
// Defaults to the file driver when unset.
//
//	DEPOTCORE_STORAGE_DRIVER: memory|file|sqlite (default file)
//	DEPOTCORE_DATA_PATH: backing file path (default ./depotcore.json, or
//	  ./depotcore.db for the sqlite driver)
//	DEPOTCORE_LOCK_PATH: advisory lock file path (file driver only)
func EnvFromOS() *domain.Env {
	driver := os.Getenv("DEPOTCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageFile)
	}
	return NewEnv(StorageDriver(driver), os.Getenv("DEPOTCORE_DATA_PATH"), os.Getenv("DEPOTCORE_LOCK_PATH"))
}

// OpenBackend resolves the env's driver to a concrete backend.
func OpenBackend(env *domain.Env) (domain.Backend, error) {
	driver := env.Driver
	if driver == "" {
		driver = string(StorageFile)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageFile:
		path := env.DataPath
		if path == "" {
			path = "depotcore.json"
		}
		return file.NewStore(path, env.LockPath), nil
	case StorageSQLite:
		return sqlite.NewStore(env.DataPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// openEnv returns the env's backend, opening and caching it on first use.
func openEnv(env *domain.Env) (domain.Backend, error) {
	if b := env.Backend(); b != nil {
		return b, nil
	}
	b, err := OpenBackend(env)
	if err != nil {
		return nil, err
	}
	return env.Bind(b), nil
}
