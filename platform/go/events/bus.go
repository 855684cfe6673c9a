// Package events is the in-process publish/subscribe bus. Events are signals to re-query the
// services; they are not a durable log and missed events are never replayed.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

// Name identifies an event kind.
type Name string

const (
	NameNewMessage           Name = "newMessage"
	NameMessagesRead         Name = "messagesRead"
	NameNewNotification      Name = "newNotification"
	NameNotificationsRead    Name = "notificationsRead"
	NameNotificationsCleared Name = "notificationsCleared"
)

// Names lists the whole vocabulary.
var Names = []Name{NameNewMessage, NameMessagesRead, NameNewNotification, NameNotificationsRead, NameNotificationsCleared}

type Event struct {
	Name    Name      `json:"name"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// ReadReceipt is the payload of messagesRead: the reader To has read everything From sent.
type ReadReceipt struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UserRef is the payload of notificationsRead and notificationsCleared.
type UserRef struct {
	UserID string `json:"userId"`
}

func NewMessage(m models.ChatMessage) Event {
	return Event{Name: NameNewMessage, Payload: m}
}

func MessagesRead(from, to string) Event {
	return Event{Name: NameMessagesRead, Payload: ReadReceipt{From: from, To: to}}
}

func NewNotification(n models.Notification) Event {
	return Event{Name: NameNewNotification, Payload: n}
}

func NotificationsRead(userID string) Event {
	return Event{Name: NameNotificationsRead, Payload: UserRef{UserID: userID}}
}

func NotificationsCleared(userID string) Event {
	return Event{Name: NameNotificationsCleared, Payload: UserRef{UserID: userID}}
}

// Audience returns the ids of the users an event concerns.
func (e Event) Audience() []string {
	switch p := e.Payload.(type) {
	case models.ChatMessage:
		return []string{p.FromUserID, p.ToUserID}
	case ReadReceipt:
		return []string{p.From, p.To}
	case models.Notification:
		return []string{p.UserID}
	case UserRef:
		return []string{p.UserID}
	default:
		return nil
	}
}

// Concerns reports whether userID is part of the event's audience.
func (e Event) Concerns(userID string) bool {
	for _, id := range e.Audience() {
		if id == userID {
			return true
		}
	}
	return false
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ev Event)
}

type Handler func(Event)

const DefaultQueueSize = 64

// Bus fans events out to subscribers. Each subscription owns a bounded queue drained by its own
// goroutine, so delivery order is preserved per subscriber and Publish never blocks; an event
// that does not fit in a full queue is dropped and logged.
type Bus struct {
	mu        sync.RWMutex
	subs      map[Name][]*Subscription
	queueSize int
	logger    *zap.Logger
}

func NewBus(logger *zap.Logger, queueSize int) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Bus{subs: make(map[Name][]*Subscription), queueSize: queueSize, logger: logger}
}

// Subscribe registers handler for name under key. Subscribing an existing (name, key) pair
// returns the existing subscription and ignores handler.
func (b *Bus) Subscribe(name Name, key string, handler Handler) *Subscription {
	if handler == nil {
		panic("events: handler must not be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs[name] {
		if s.key == key {
			return s
		}
	}

	s := &Subscription{
		bus:     b,
		name:    name,
		key:     key,
		handler: handler,
		queue:   make(chan Event, b.queueSize),
		done:    make(chan struct{}),
	}
	b.subs[name] = append(b.subs[name], s)
	go s.run()
	return s
}

// Unsubscribe removes the (name, key) subscription if present. It does not wait for queued events,
// so a handler may unsubscribe itself.
func (b *Bus) Unsubscribe(name Name, key string) {
	b.mu.RLock()
	var found *Subscription
	for _, s := range b.subs[name] {
		if s.key == key {
			found = s
			break
		}
	}
	b.mu.RUnlock()

	if found != nil {
		found.Close()
	}
}

// Publish enqueues ev for every subscriber of ev.Name present at call time.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs[ev.Name] {
		select {
		case s.queue <- ev:
		default:
			s.dropped.Add(1)
			b.logger.Warn("event queue full, dropping event",
				zap.String("event", string(ev.Name)),
				zap.String("subscriber", s.key),
			)
		}
	}
}

// Subscribers reports how many subscriptions exist for name.
func (b *Bus) Subscribers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

// Close removes every subscription and waits for their queues to drain. It must not be called
// from a handler.
func (b *Bus) Close() {
	b.mu.RLock()
	var all []*Subscription
	for _, list := range b.subs {
		all = append(all, list...)
	}
	b.mu.RUnlock()

	for _, s := range all {
		s.Close()
	}
	for _, s := range all {
		s.Wait()
	}
}

func (b *Bus) remove(s *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[s.name]
	for i, existing := range list {
		if existing == s {
			b.subs[s.name] = append(list[:i:i], list[i+1:]...)
			if len(b.subs[s.name]) == 0 {
				delete(b.subs, s.name)
			}
			return true
		}
	}
	return false
}

// Subscription is one registered handler.
type Subscription struct {
	bus     *Bus
	name    Name
	key     string
	handler Handler
	queue   chan Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

func (s *Subscription) run() {
	defer close(s.done)
	for ev := range s.queue {
		s.deliver(ev)
	}
}

func (s *Subscription) deliver(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.bus.logger.Error("event handler panicked",
				zap.String("event", string(ev.Name)),
				zap.String("subscriber", s.key),
				zap.Any("panic", r),
			)
		}
	}()
	s.handler(ev)
}

// Close unsubscribes without waiting; events already queued are still handled. Safe to call more
// than once and from the subscription's own handler.
func (s *Subscription) Close() {
	s.once.Do(func() {
		// removal happens under the bus write lock, so no Publish can be sending on the queue
		s.bus.remove(s)
		close(s.queue)
	})
}

// Wait blocks until Close was called and every queued event was handled. Calling it from the
// subscription's own handler deadlocks.
func (s *Subscription) Wait() {
	<-s.done
}

// Dropped reports how many events did not fit in the queue.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

var _ Publisher = (*Bus)(nil)
