package setups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/platform/go/persistence"
	platformstorage "github.com/parsa000721/CopTrack/platform/go/storage"
)

// Supported snapshot backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendGCS      = "gcs"
	BackendMemory   = "memory"
)

// StoreConfig selects and configures the snapshot backend. It is shared by the API and the CLI.
type StoreConfig struct {
	Backend      string        `env:"SNAPSHOT_BACKEND" envDefault:"file"`
	File         string        `env:"SNAPSHOT_FILE" envDefault:"data/coptrack.json"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	MaxConns     int32         `env:"DB_MAX_CONNS" envDefault:"4"`
	ConnLifetime time.Duration `env:"DB_CONN_LIFETIME" envDefault:"30m"`
	Bucket       string        `env:"SNAPSHOT_BUCKET"`
	Prefix       string        `env:"SNAPSHOT_PREFIX" envDefault:"coptrack"`
}

// Validate reports missing settings for the selected backend.
func (c StoreConfig) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendFile:
		if c.File == "" {
			return errors.New("SNAPSHOT_FILE is required for the file backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendGCS:
		if c.Bucket == "" {
			return errors.New("SNAPSHOT_BUCKET is required for the gcs backend")
		}
		if c.Prefix == "" {
			return errors.New("SNAPSHOT_PREFIX is required for the gcs backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported snapshot backend %q", c.Backend)
	}
	return nil
}

// OpenSnapshotStore builds the configured backend. The returned cleanup func releases pools and
// clients and is always non-nil.
func OpenSnapshotStore(ctx context.Context, cfg StoreConfig, logger *zap.Logger) (persistence.SnapshotStore, func(), error) {
	noop := func() {}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, noop, err
	}

	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		logger.Warn("using in-memory snapshot store; state is lost on exit")
		return persistence.NewMemoryStore(), noop, nil

	case BackendFile:
		store, err := persistence.NewFileStore(cfg.File)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("snapshot store ready", zap.String("backend", BackendFile), zap.String("path", store.Path()))
		return store, noop, nil

	case BackendPostgres:
		pool, err := persistence.NewPool(ctx, persistence.PoolConfig{
			ConnString:      cfg.DatabaseURL,
			ApplicationName: persistence.DefaultApplicationName + "-snapshots",
			MaxConns:        cfg.MaxConns,
			MaxConnLifetime: cfg.ConnLifetime,
		})
		if err != nil {
			return nil, noop, err
		}
		store, err := persistence.NewPostgresStore(ctx, pool)
		if err != nil {
			persistence.ClosePool(pool)
			return nil, noop, err
		}
		logger.Info("snapshot store ready", zap.String("backend", BackendPostgres))
		return store, func() { persistence.ClosePool(pool) }, nil

	case BackendGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("create storage client: %w", err)
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("close storage client", zap.Error(err))
			}
		}
		if err := platformstorage.NewPrefixChecker(client).Check(ctx, cfg.Bucket, cfg.Prefix); err != nil {
			closeClient()
			return nil, noop, fmt.Errorf("check snapshot bucket: %w", err)
		}
		store, err := persistence.NewGCSStore(client, cfg.Bucket, cfg.Prefix, logger)
		if err != nil {
			closeClient()
			return nil, noop, err
		}
		logger.Info("snapshot store ready", zap.String("backend", BackendGCS), zap.String("bucket", cfg.Bucket))
		return store, closeClient, nil
	}

	return nil, noop, fmt.Errorf("unsupported snapshot backend %q", cfg.Backend)
}
