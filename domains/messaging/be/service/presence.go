package service

import (
	"context"
	"fmt"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

// Presence modes accepted by NewPresence.
const (
	PresenceParity = "parity"
	PresenceNone   = "none"
)

// PresenceProvider reports which of the known users are online. There is no real presence
// signal behind it yet; implementations are deterministic placeholders.
type PresenceProvider interface {
	Online(ctx context.Context, users []models.User, self string) []string
}

// NewPresence returns the provider for mode.
func NewPresence(mode string) (PresenceProvider, error) {
	switch mode {
	case PresenceParity, "":
		return ParityPresence{}, nil
	case PresenceNone:
		return NoPresence{}, nil
	default:
		return nil, fmt.Errorf("unknown presence mode %q", mode)
	}
}

// ParityPresence marks a user online when the last byte of its id is even.
type ParityPresence struct{}

func (ParityPresence) Online(_ context.Context, users []models.User, self string) []string {
	out := make([]string, 0)
	for _, u := range users {
		if u.ID == self || u.ID == "" {
			continue
		}
		if u.ID[len(u.ID)-1]%2 == 0 {
			out = append(out, u.ID)
		}
	}
	return out
}

// NoPresence reports nobody online.
type NoPresence struct{}

func (NoPresence) Online(context.Context, []models.User, string) []string {
	return []string{}
}
