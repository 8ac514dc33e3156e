// Package persistence keeps the session snapshot in the local SQLite
// database. Storage is best effort: failures are logged and never reach the
// caller, and a snapshot that cannot be decoded is purged and treated as
// absent.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/covyhq/covy/internal/client/models"
	"github.com/covyhq/covy/internal/client/repositories/metadata"
	"github.com/covyhq/covy/internal/logging"
)

const (
	// SessionKey is the single key the snapshot is stored under.
	SessionKey = "cvGeneratorState"
	savedAtKey = SessionKey + ".savedAt"
)

// StorageError describes a failed storage operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("session storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type Adapter struct {
	repo   metadata.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewAdapter(repo metadata.Repository, logger logging.Logger) *Adapter {
	return &Adapter{
		repo:   repo,
		logger: logger.With("component", "persistence"),
		now:    time.Now,
	}
}

// Save writes the snapshot together with the time it was saved.
func (a *Adapter) Save(ctx context.Context, snap models.Snapshot) {
	if err := a.save(ctx, snap); err != nil {
		a.logger.Error(ctx, "failed to save session", "error", err)
	}
}

// Load returns the stored snapshot, or false when there is none or it is
// unreadable.
func (a *Adapter) Load(ctx context.Context) (models.Snapshot, bool) {
	snap, found, err := a.load(ctx)
	if err != nil {
		a.logger.Warn(ctx, "discarding stored session", "error", err)
		return models.Snapshot{}, false
	}
	return snap, found
}

func (a *Adapter) Clear(ctx context.Context) {
	if err := a.clear(ctx); err != nil {
		a.logger.Error(ctx, "failed to clear session", "error", err)
	}
}

// Purge removes everything kept in local storage, not only the session.
func (a *Adapter) Purge(ctx context.Context) {
	if err := a.repo.Clear(ctx); err != nil {
		a.logger.Error(ctx, "failed to purge local storage", "error", &StorageError{Op: "purge", Err: err})
		return
	}
	a.logger.Info(ctx, "local storage purged")
}

// SavedAt reports when the snapshot was last written.
func (a *Adapter) SavedAt(ctx context.Context) (time.Time, bool) {
	raw, err := a.repo.Get(ctx, savedAtKey)
	if err != nil || raw == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (a *Adapter) save(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}

	err = a.repo.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, SessionKey, data); err != nil {
			return err
		}
		return repo.Set(ctx, savedAtKey, []byte(a.now().UTC().Format(time.RFC3339Nano)))
	})
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

func (a *Adapter) load(ctx context.Context) (models.Snapshot, bool, error) {
	raw, err := a.repo.Get(ctx, SessionKey)
	if err != nil {
		return models.Snapshot{}, false, &StorageError{Op: "load", Err: err}
	}
	if raw == nil {
		return models.Snapshot{}, false, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		if cerr := a.clear(ctx); cerr != nil {
			a.logger.Error(ctx, "failed to purge corrupted session", "error", cerr)
		}
		return models.Snapshot{}, false, &StorageError{Op: "decode", Err: err}
	}
	return snap, true, nil
}

func (a *Adapter) clear(ctx context.Context) error {
	err := a.repo.Update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Delete(ctx, SessionKey); err != nil {
			return err
		}
		return repo.Delete(ctx, savedAtKey)
	})
	if err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}
