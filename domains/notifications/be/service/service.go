package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/events"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// ErrNotFound is returned when the addressed user does not exist.
var ErrNotFound = errors.New("user not found")

// Service is the per-user notification queue.
type Service interface {
	Notify(ctx context.Context, userID string, typ models.NotificationType, message string) (models.Notification, error)
	// Send is Notify on behalf of actor: administrators may notify anyone, station officers only
	// members of their own station.
	Send(ctx context.Context, actor models.User, userID string, typ models.NotificationType, message string) (models.Notification, error)
	List(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	ClearAll(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type service struct {
	db  *datastore.DB
	bus events.Publisher
}

func New(db *datastore.DB, bus events.Publisher) Service {
	if db == nil {
		panic("datastore is required")
	}
	if bus == nil {
		panic("event publisher is required")
	}
	return &service{db: db, bus: bus}
}

func (s *service) Notify(ctx context.Context, userID string, typ models.NotificationType, message string) (models.Notification, error) {
	return s.notify(ctx, userID, typ, message, nil)
}

func (s *service) Send(ctx context.Context, actor models.User, userID string, typ models.NotificationType, message string) (models.Notification, error) {
	if actor.IsAdmin() {
		return s.notify(ctx, userID, typ, message, nil)
	}
	if actor.Role != models.RoleStationOfficer {
		return models.Notification{}, fmt.Errorf("%w: only officers may send notifications", tenant.ErrAccessDenied)
	}
	return s.notify(ctx, userID, typ, message, func(state *datastore.State, target models.User) error {
		return tenant.AuthorizeWrite(state, actor, target.StationID)
	})
}

// notify appends the notification in one commit; guard runs against the state being committed.
func (s *service) notify(ctx context.Context, userID string, typ models.NotificationType, message string, guard func(*datastore.State, models.User) error) (models.Notification, error) {
	message = strings.TrimSpace(message)

	fieldErrors := FieldErrors{}
	if !typ.Valid() {
		fieldErrors.add("type", fmt.Sprintf("unsupported notification type %q", typ))
	}
	if message == "" {
		fieldErrors.add("message", "message is required")
	}
	if len(fieldErrors) > 0 {
		return models.Notification{}, &ValidationError{Fields: fieldErrors}
	}

	var created models.Notification
	err := s.db.Update(ctx, func(state *datastore.State) error {
		target, _, ok := state.User(userID)
		if !ok {
			return ErrNotFound
		}
		if guard != nil {
			if err := guard(state, target); err != nil {
				return err
			}
		}
		created = state.AddNotification(userID, typ, message, s.db.Now())
		return nil
	})
	if err != nil {
		return models.Notification{}, err
	}

	s.bus.Publish(events.NewNotification(created))
	return created, nil
}

func (s *service) List(_ context.Context, userID string) ([]models.Notification, error) {
	state := s.db.View()
	out := make([]models.Notification, 0)
	for _, n := range state.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	err := s.db.Update(ctx, func(state *datastore.State) error {
		changed := false
		for i := range state.Notifications {
			if state.Notifications[i].UserID == userID && !state.Notifications[i].Read {
				state.Notifications[i].Read = true
				changed = true
			}
		}
		if !changed {
			return datastore.ErrNoChange
		}
		return nil
	})
	if errors.Is(err, datastore.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	s.bus.Publish(events.NotificationsRead(userID))
	return nil
}

func (s *service) ClearAll(ctx context.Context, userID string) error {
	err := s.db.Update(ctx, func(state *datastore.State) error {
		kept := state.Notifications[:0]
		for _, n := range state.Notifications {
			if n.UserID != userID {
				kept = append(kept, n)
			}
		}
		if len(kept) == len(state.Notifications) {
			return datastore.ErrNoChange
		}
		state.Notifications = kept
		return nil
	})
	if errors.Is(err, datastore.ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	s.bus.Publish(events.NotificationsCleared(userID))
	return nil
}

func (s *service) UnreadCount(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range s.db.View().Notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}
