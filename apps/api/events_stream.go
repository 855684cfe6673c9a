package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/events"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
)

const (
	defaultHeartbeat = 25 * time.Second
	streamBuffer     = 32
	// milliseconds a client waits before reconnecting
	streamRetry = 3000
)

// eventStream relays bus events that concern the caller as server-sent events.
type eventStream struct {
	bus       *events.Bus
	logger    *zap.Logger
	heartbeat time.Duration
}

func newEventStream(bus *events.Bus, logger *zap.Logger, heartbeat time.Duration) *eventStream {
	if bus == nil {
		panic("event bus is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &eventStream{bus: bus, logger: logger, heartbeat: heartbeat}
}

func (s *eventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	logger := platformlogging.FromContextOr(r.Context(), s.logger)
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("clear write deadline", zap.Error(err))
	}

	connID := chimw.GetReqID(r.Context())
	if connID == "" {
		connID = datastore.NewID()
	}
	key := "sse/" + user.ID + "/" + connID

	queue := make(chan events.Event, streamBuffer)
	subs := make([]*events.Subscription, 0, len(events.Names))
	for _, name := range events.Names {
		subs = append(subs, s.bus.Subscribe(name, key, func(ev events.Event) {
			if !ev.Concerns(user.ID) {
				return
			}
			select {
			case queue <- ev:
			default:
				logger.Warn("event stream buffer full, dropping event", zap.String("event", string(ev.Name)))
			}
		}))
	}
	defer func() {
		for _, sub := range subs {
			sub.Close()
		}
		for _, sub := range subs {
			sub.Wait()
		}
	}()

	opening := sse.Event{Event: "ready", Retry: streamRetry, Data: map[string]string{"userId": user.ID}}
	opening.WriteContentType(w)
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := s.send(rc, w, opening); err != nil {
		logger.Debug("event stream closed", zap.Error(err))
		return
	}

	logger.Info("event stream opened")
	defer logger.Info("event stream closed")

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-queue:
			frame := sse.Event{Event: string(ev.Name), Data: ev}
			if err := s.send(rc, w, frame); err != nil {
				logger.Debug("write event", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := s.send(rc, w, sse.Event{Event: "ping", Data: "keepalive"}); err != nil {
				logger.Debug("write heartbeat", zap.Error(err))
				return
			}
		}
	}
}

func (s *eventStream) send(rc *http.ResponseController, w http.ResponseWriter, ev sse.Event) error {
	if err := sse.Encode(w, ev); err != nil {
		return err
	}
	return rc.Flush()
}
