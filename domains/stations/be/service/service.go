package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

// ErrNotFound is returned for an unknown station id.
var ErrNotFound = errors.New("station not found")

// Service manages the station roster.
type Service interface {
	List(ctx context.Context) ([]models.Station, error)
	Get(ctx context.Context, id string) (models.Station, error)
	// SetActive toggles a station. Members of an inactive station can no longer log in or write,
	// but their credentials and historic records are left untouched.
	SetActive(ctx context.Context, actor models.User, id string, active bool) (models.Station, error)
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

func (s *service) List(context.Context) ([]models.Station, error) {
	return append([]models.Station(nil), s.db.View().Stations...), nil
}

func (s *service) Get(_ context.Context, id string) (models.Station, error) {
	st, _, ok := s.db.View().Station(id)
	if !ok {
		return models.Station{}, ErrNotFound
	}
	return st, nil
}

func (s *service) SetActive(ctx context.Context, actor models.User, id string, active bool) (models.Station, error) {
	if err := tenant.RequireAdmin(actor); err != nil {
		return models.Station{}, err
	}

	var out models.Station
	err := s.db.Update(ctx, func(state *datastore.State) error {
		st, idx, ok := state.Station(id)
		if !ok {
			return ErrNotFound
		}
		if st.Active == active {
			out = st
			return datastore.ErrNoChange
		}

		st.Active = active
		state.Stations[idx] = st
		out = st

		verb := "Deactivated"
		if active {
			verb = "Activated"
		}
		state.LogActivity(actor, fmt.Sprintf("%s %s", verb, st.Name), s.db.Now())
		return nil
	})
	if err != nil && !errors.Is(err, datastore.ErrNoChange) {
		return models.Station{}, err
	}
	return out, nil
}
