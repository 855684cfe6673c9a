package service

import (
	"context"
	"errors"
	"sort"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ErrInvalidLimit is returned for a negative or oversized limit.
var ErrInvalidLimit = errors.New("invalid limit")

// Service exposes the activity feed.
type Service interface {
	// Recent returns the newest entries visible to user. Administrators see every station;
	// everyone else sees only entries of their own station.
	Recent(ctx context.Context, user models.User, limit int) ([]models.ActivityLog, error)
}

type service struct {
	db *datastore.DB
}

func New(db *datastore.DB) Service {
	if db == nil {
		panic("datastore is required")
	}
	return &service{db: db}
}

func (s *service) Recent(_ context.Context, user models.User, limit int) ([]models.ActivityLog, error) {
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 0 || limit > MaxLimit:
		return nil, ErrInvalidLimit
	}

	state := s.db.View()
	out := make([]models.ActivityLog, 0, len(state.ActivityLogs))
	for _, entry := range state.ActivityLogs {
		if !user.IsAdmin() && (user.StationID == "" || entry.StationID != user.StationID) {
			continue
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
