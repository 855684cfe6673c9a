// Package clienv loads the environment shared by every CLI command and opens the datastore.
package clienv

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/datastore"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/setups"
)

type Config struct {
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"warn"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"0"`
	AuthSecret string        `env:"AUTH_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
	Store      setups.StoreConfig
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Logger writes to stderr so command output stays parseable.
func (c Config) Logger() (*zap.Logger, error) {
	return platformlogging.NewLogger(platformlogging.Config{
		Component: "coptrack-cli",
		Level:     c.LogLevel,
		Output:    os.Stderr,
	})
}

// Session is an opened datastore with its cleanup.
type Session struct {
	DB     *datastore.DB
	Hasher *platformauth.SecretHasher
	Logger *zap.Logger
	close  func()
}

// Close releases the snapshot backend and flushes the logger.
func (s *Session) Close() {
	s.close()
	_ = s.Logger.Sync()
}

// Open loads the environment and opens the datastore, seeding the snapshot when none exists.
func Open(ctx context.Context) (*Session, Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, Config{}, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, Config{}, fmt.Errorf("init logger: %w", err)
	}

	hasher, err := platformauth.NewSecretHasher(cfg.BcryptCost)
	if err != nil {
		return nil, Config{}, err
	}

	snapshots, closeStore, err := setups.OpenSnapshotStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, Config{}, fmt.Errorf("open snapshot store: %w", err)
	}

	db, err := datastore.Open(ctx, datastore.Options{
		Snapshots: snapshots,
		Seed:      datastore.DefaultSeed(hasher.Hash),
		Logger:    logger.Named("datastore"),
	})
	if err != nil {
		closeStore()
		return nil, Config{}, fmt.Errorf("open datastore: %w", err)
	}

	return &Session{DB: db, Hasher: hasher, Logger: logger, close: closeStore}, cfg, nil
}
