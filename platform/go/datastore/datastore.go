// Package datastore owns the process-wide in-memory database and its snapshot lifecycle.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/platform/go/persistence"
)

// ErrNoChange is returned by an update function that decided there is nothing to write.
// Update passes it through without persisting so callers can skip follow-up work.
var ErrNoChange = errors.New("no change")

// Options configures Open.
type Options struct {
	Snapshots persistence.SnapshotStore
	Seed      SeedFunc
	Logger    *zap.Logger
	// Now defaults to time.Now in UTC.
	Now func() time.Time
	// SaveAttempts bounds snapshot save retries per commit; defaults to 3.
	SaveAttempts uint
}

// DB is the store object injected into every service. Reads see an immutable State;
// writes are serialized and become visible only after the full snapshot was persisted.
type DB struct {
	snapshots    persistence.SnapshotStore
	logger       *zap.Logger
	now          func() time.Time
	saveAttempts uint

	commit  sync.Mutex
	current atomic.Pointer[State]
}

// Open restores the state from the snapshot store, or seeds and persists it when no snapshot exists.
func Open(ctx context.Context, opts Options) (*DB, error) {
	if opts.Snapshots == nil {
		return nil, errors.New("snapshot store is required")
	}
	if opts.Seed == nil {
		opts.Seed = EmptySeed
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.SaveAttempts == 0 {
		opts.SaveAttempts = 3
	}

	db := &DB{
		snapshots:    opts.Snapshots,
		logger:       opts.Logger,
		now:          opts.Now,
		saveAttempts: opts.SaveAttempts,
	}

	docs, err := opts.Snapshots.Load(ctx)
	switch {
	case err == nil:
		state, decodeErr := Decode(docs)
		if decodeErr != nil {
			return nil, fmt.Errorf("restore snapshot: %w", decodeErr)
		}
		db.current.Store(state)
		db.logger.Info("state restored from snapshot", zap.Int("documents", len(docs)))
		return db, nil
	case errors.Is(err, persistence.ErrNoSnapshot):
	default:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	state, err := opts.Seed(db.now())
	if err != nil {
		return nil, fmt.Errorf("seed state: %w", err)
	}
	if err := db.persist(ctx, state); err != nil {
		return nil, err
	}
	db.current.Store(state)
	db.logger.Info("state seeded",
		zap.Int("stations", len(state.Stations)),
		zap.Int("users", len(state.Users)),
		zap.Int("records", len(state.Records)),
	)
	return db, nil
}

// View returns the current state. Callers must treat it as read-only.
func (db *DB) View() *State {
	return db.current.Load()
}

// Now returns the store clock.
func (db *DB) Now() time.Time {
	return db.now()
}

// Update applies fn to a private copy of the state, persists the full snapshot and only then
// publishes the copy. When fn fails or persistence fails the visible state is unchanged.
func (db *DB) Update(ctx context.Context, fn func(*State) error) error {
	db.commit.Lock()
	defer db.commit.Unlock()

	next := db.current.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}

	if err := db.persist(ctx, next); err != nil {
		return err
	}

	db.current.Store(next)
	return nil
}

// Documents encodes the current state, for export.
func (db *DB) Documents() (persistence.Documents, error) {
	return Encode(db.View())
}

func (db *DB) persist(ctx context.Context, state *State) error {
	docs, err := Encode(state)
	if err != nil {
		db.logger.Error("encode snapshot", zap.Error(err))
		return fmt.Errorf("encode snapshot: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 250 * time.Millisecond

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if saveErr := db.snapshots.Save(ctx, docs); saveErr != nil {
			db.logger.Warn("snapshot save failed", zap.Int("attempt", attempt), zap.Error(saveErr))
			return struct{}{}, saveErr
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(db.saveAttempts))
	if err != nil {
		db.logger.Error("snapshot not persisted, change discarded", zap.Int("attempts", attempt), zap.Error(err))
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// NewID returns a time-ordered unique id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
