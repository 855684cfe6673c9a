package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	activityhandler "github.com/parsa000721/CopTrack/domains/activity/be/handler"
	activityservice "github.com/parsa000721/CopTrack/domains/activity/be/service"
	dutycharthandler "github.com/parsa000721/CopTrack/domains/dutychart/be/handler"
	dutychartservice "github.com/parsa000721/CopTrack/domains/dutychart/be/service"
	messaginghandler "github.com/parsa000721/CopTrack/domains/messaging/be/handler"
	messagingservice "github.com/parsa000721/CopTrack/domains/messaging/be/service"
	notificationshandler "github.com/parsa000721/CopTrack/domains/notifications/be/handler"
	notificationsservice "github.com/parsa000721/CopTrack/domains/notifications/be/service"
	recordshandler "github.com/parsa000721/CopTrack/domains/records/be/handler"
	recordsservice "github.com/parsa000721/CopTrack/domains/records/be/service"
	registershandler "github.com/parsa000721/CopTrack/domains/registers/be/handler"
	stationshandler "github.com/parsa000721/CopTrack/domains/stations/be/handler"
	stationsservice "github.com/parsa000721/CopTrack/domains/stations/be/service"
	usershandler "github.com/parsa000721/CopTrack/domains/users/be/handler"
	usersservice "github.com/parsa000721/CopTrack/domains/users/be/service"
	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/events"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	platformmiddleware "github.com/parsa000721/CopTrack/platform/go/middleware"
	"github.com/parsa000721/CopTrack/platform/go/schema"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
	tenantmiddleware "github.com/parsa000721/CopTrack/platform/go/tenant/middleware"
)

// app carries the process-wide dependencies the router is built from.
type app struct {
	logger         *zap.Logger
	db             *datastore.DB
	bus            *events.Bus
	tokens         *platformauth.Tokens
	hasher         usersservice.SecretHasher
	presence       messagingservice.PresenceProvider
	requestTimeout time.Duration
	// heartbeat of the event stream; defaults to 25s
	heartbeat time.Duration
}

func newRouter(a app) (http.Handler, error) {
	if a.logger == nil || a.db == nil || a.bus == nil || a.tokens == nil || a.hasher == nil {
		return nil, errors.New("router: logger, datastore, bus, tokens and hasher are required")
	}
	if a.requestTimeout <= 0 {
		a.requestTimeout = 15 * time.Second
	}

	catalog := schema.Default()

	userService := usersservice.New(a.db, a.hasher)
	stationService := stationsservice.New(a.db)
	activityService := activityservice.New(a.db)
	recordService := recordsservice.New(a.db, catalog, schema.NewValidator())
	dutyChartService := dutychartservice.New(a.db)
	notificationService := notificationsservice.New(a.db, a.bus)
	messagingService := messagingservice.New(a.db, a.bus, a.presence)

	routes := []interface{ Routes(chi.Router) }{
		usershandler.New(userService, a.tokens, a.logger),
		stationshandler.New(stationService, a.logger),
		registershandler.New(catalog, recordService, a.logger),
		recordshandler.New(recordService, a.logger),
		activityhandler.New(activityService, a.logger),
		dutycharthandler.New(dutyChartService, a.logger),
		notificationshandler.New(notificationService, a.logger),
		messaginghandler.New(messagingService, a.logger),
	}

	specValidator, err := newSpecValidator(a.logger)
	if err != nil {
		return nil, err
	}

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(a.logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.db.View() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// ---- Swagger UI + OpenAPI documents (public) ----
	registerDocsRoutes(rootRouter, a.logger)

	apiRouter := chi.NewRouter()
	apiRouter.Use(buildAuthMiddleware(a.db, a.tokens))
	apiRouter.Use(platformmiddleware.RequestTrace)
	apiRouter.Use(tenantmiddleware.WithStationScope(func() tenant.StationLookup { return a.db.View() }))
	apiRouter.Use(specValidator)

	apiRouter.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(a.requestTimeout))
		for _, h := range routes {
			h.Routes(r)
		}
	})

	// long-lived, so outside the request timeout
	apiRouter.Get("/events", newEventStream(a.bus, a.logger, a.heartbeat).ServeHTTP)

	rootRouter.Mount("/api/v1", apiRouter)
	return rootRouter, nil
}
