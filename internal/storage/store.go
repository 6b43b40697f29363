package storage

import (
	"context"
	"errors"

	"github.com/sammy440/Habit-tracker/internal/model"
)

// ErrBackupNotSupported is returned by backends that have no secondary
// location to copy the snapshot to.
var ErrBackupNotSupported = errors.New("backup not supported by this backend")

// Store persists the whole habit collection as one snapshot document.
// Writes are last-writer-wins; there is no per-habit granularity.
type Store interface {
	// Load returns the persisted snapshot. A missing or corrupt snapshot
	// yields the empty default, not an error; remote backends still report
	// connectivity failures.
	Load(ctx context.Context) (model.Snapshot, error)

	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snap model.Snapshot) error

	// Backup copies the current snapshot to the backend's backup location.
	Backup(ctx context.Context) error

	Close() error
}
