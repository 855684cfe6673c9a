package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	messagingservice "github.com/parsa000721/CopTrack/domains/messaging/be/service"
	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/events"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/setups"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	AuthSecret      string        `env:"AUTH_SECRET,required"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
	EventQueueSize  int           `env:"EVENT_QUEUE_SIZE" envDefault:"64"`
	PresenceMode    string        `env:"PRESENCE_MODE" envDefault:"parity"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"0"`
	Store           setups.StoreConfig
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "coptrack-api",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	hasher, err := platformauth.NewSecretHasher(cfg.BcryptCost)
	if err != nil {
		logger.Fatal("init secret hasher", zap.Error(err))
	}

	tokens, err := platformauth.NewTokens(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("init token issuer", zap.Error(err))
	}

	presence, err := messagingservice.NewPresence(cfg.PresenceMode)
	if err != nil {
		logger.Fatal("init presence provider", zap.Error(err))
	}

	snapshots, closeStore, err := setups.OpenSnapshotStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("init snapshot store", zap.Error(err))
	}
	defer closeStore()

	db, err := datastore.Open(ctx, datastore.Options{
		Snapshots: snapshots,
		Seed:      datastore.DefaultSeed(hasher.Hash),
		Logger:    logger.Named("datastore"),
	})
	if err != nil {
		logger.Fatal("open datastore", zap.Error(err))
	}

	bus := events.NewBus(logger.Named("events"), cfg.EventQueueSize)
	defer bus.Close()

	router, err := newRouter(app{
		logger:         logger,
		db:             db,
		bus:            bus,
		tokens:         tokens,
		hasher:         hasher,
		presence:       presence,
		requestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// the event stream clears its own write deadline
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
