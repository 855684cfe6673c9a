package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/events"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

var (
	// ErrEmptyMessage is returned when a message carries neither text nor an attachment.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNotFound is returned when either party of a conversation does not exist.
	ErrNotFound = errors.New("user not found")
)

const defaultAttachmentName = "attachment"

// AttachmentInput is a file as uploaded; MimeType is detected from Data when empty.
type AttachmentInput struct {
	Name     string
	MimeType string
	Data     []byte
}

type SendInput struct {
	Text       string
	Attachment *AttachmentInput
}

// Service is the direct messaging surface between two users.
type Service interface {
	History(ctx context.Context, userA, userB string) ([]models.ChatMessage, error)
	Send(ctx context.Context, fromID, toID string, in SendInput) (models.ChatMessage, error)
	MarkRead(ctx context.Context, readerID, otherID string) error
	UnreadCounts(ctx context.Context, userID string) (map[string]int, error)
	OnlineUsers(ctx context.Context, userID string) ([]string, error)
}

type service struct {
	db       *datastore.DB
	bus      events.Publisher
	presence PresenceProvider
}

func New(db *datastore.DB, bus events.Publisher, presence PresenceProvider) Service {
	if db == nil {
		panic("datastore is required")
	}
	if bus == nil {
		panic("event publisher is required")
	}
	if presence == nil {
		presence = NoPresence{}
	}
	return &service{db: db, bus: bus, presence: presence}
}

func (s *service) History(_ context.Context, userA, userB string) ([]models.ChatMessage, error) {
	out := make([]models.ChatMessage, 0)
	for _, m := range s.db.View().ChatMessages {
		if (m.FromUserID == userA && m.ToUserID == userB) || (m.FromUserID == userB && m.ToUserID == userA) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (s *service) Send(ctx context.Context, fromID, toID string, in SendInput) (models.ChatMessage, error) {
	text := strings.TrimSpace(in.Text)
	attachment := encodeAttachment(in.Attachment)
	if text == "" && attachment == nil {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	var (
		msg          models.ChatMessage
		notification models.Notification
	)
	err := s.db.Update(ctx, func(state *datastore.State) error {
		from, _, ok := state.User(fromID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, fromID)
		}
		if _, _, ok := state.User(toID); !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, toID)
		}
		if err := tenant.RequireActive(state, from); err != nil {
			return err
		}

		now := s.db.Now()
		msg = models.ChatMessage{
			ID:         datastore.NewID(),
			FromUserID: fromID,
			ToUserID:   toID,
			Text:       text,
			Attachment: attachment,
			Timestamp:  now,
		}
		state.ChatMessages = append(state.ChatMessages, msg)
		notification = state.AddNotification(toID, models.NotificationChat, "New message from "+from.Name, now)
		return nil
	})
	if err != nil {
		return models.ChatMessage{}, err
	}

	s.bus.Publish(events.NewNotification(notification))
	s.bus.Publish(events.NewMessage(msg))
	return msg, nil
}

func (s *service) MarkRead(ctx context.Context, readerID, otherID string) error {
	err := s.db.Update(ctx, func(state *datastore.State) error {
		changed := false
		for i := range state.ChatMessages {
			m := &state.ChatMessages[i]
			if m.FromUserID == otherID && m.ToUserID == readerID && !m.Read {
				m.Read = true
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

	s.bus.Publish(events.MessagesRead(otherID, readerID))
	return nil
}

func (s *service) UnreadCounts(_ context.Context, userID string) (map[string]int, error) {
	counts := map[string]int{}
	for _, m := range s.db.View().ChatMessages {
		if m.ToUserID == userID && !m.Read {
			counts[m.FromUserID]++
		}
	}
	return counts, nil
}

func (s *service) OnlineUsers(ctx context.Context, userID string) ([]string, error) {
	return s.presence.Online(ctx, s.db.View().Users, userID), nil
}

func encodeAttachment(in *AttachmentInput) *models.Attachment {
	if in == nil || len(in.Data) == 0 {
		return nil
	}

	mimeType := strings.TrimSpace(in.MimeType)
	if mimeType == "" {
		mimeType = mimetype.Detect(in.Data).String()
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultAttachmentName
		if known := mimetype.Lookup(mimeType); known != nil {
			name += known.Extension()
		}
	}

	return &models.Attachment{
		DataURI:  "data:" + strings.ReplaceAll(mimeType, " ", "") + ";base64," + base64.StdEncoding.EncodeToString(in.Data),
		Name:     name,
		MimeType: mimeType,
	}
}
