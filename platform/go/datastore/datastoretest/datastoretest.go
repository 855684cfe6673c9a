// Package datastoretest builds fresh in-memory stores for service tests.
package datastoretest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/persistence"
)

// Fixture principals. Officer1 and Constable1 share StationX; Officer2 belongs to StationY.
var (
	StationX = models.Station{ID: "ps_x", Name: "PS X", Active: true}
	StationY = models.Station{ID: "ps_y", Name: "PS Y", Active: true}

	Admin      = models.User{ID: "admin_user", Name: "Admin", Role: models.RoleAdmin, SSOID: "admin", Email: "admin@example.gov"}
	Officer1   = models.User{ID: "officer1", Name: "Officer One", Role: models.RoleStationOfficer, StationID: "ps_x", SSOID: "officer1", Email: "one@example.gov"}
	Officer2   = models.User{ID: "officer2", Name: "Officer Two", Role: models.RoleStationOfficer, StationID: "ps_y", SSOID: "officer2", Email: "two@example.gov"}
	Constable1 = models.User{ID: "constable1", Name: "Constable One", Role: models.RoleUser, StationID: "ps_x", SSOID: "constable1", Email: "c1@example.gov"}
)

// Now is the fixed clock of stores built by New.
var Now = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// Store is a test store plus its snapshot backend, so tests can inject save failures.
type Store struct {
	*datastore.DB
	Snapshots *persistence.MemoryStore
}

// New opens a store seeded with the fixture stations and principals. Mutators run on the seed
// state before it is persisted. Every fixture secret is its ssoId, stored verbatim; services
// under test are given PlainHasher.
func New(t testing.TB, mutators ...func(*datastore.State)) *Store {
	t.Helper()

	snapshots := persistence.NewMemoryStore()
	seed := func(time.Time) (*datastore.State, error) {
		s, err := datastore.EmptySeed(Now)
		if err != nil {
			return nil, err
		}
		s.Stations = []models.Station{StationX, StationY}
		s.Users = []models.User{Admin, Officer1, Officer2, Constable1}
		for _, u := range s.Users {
			s.Credentials[u.SSOID] = u.SSOID
		}
		for _, m := range mutators {
			m(s)
		}
		return s, nil
	}

	db, err := datastore.Open(context.Background(), datastore.Options{
		Snapshots:    snapshots,
		Seed:         seed,
		Logger:       zaptest.NewLogger(t),
		Now:          func() time.Time { return Now },
		SaveAttempts: 1,
	})
	require.NoError(t, err)

	return &Store{DB: db, Snapshots: snapshots}
}

// PlainHasher stores secrets verbatim.
type PlainHasher struct{}

func (PlainHasher) Hash(secret string) (string, error) { return secret, nil }

func (PlainHasher) Compare(hash, secret string) error {
	if hash == "" || hash != secret {
		return platformauth.ErrSecretMismatch
	}
	return nil
}
