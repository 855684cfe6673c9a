package datastore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/persistence"
)

func plainHasher(secret string) (string, error) { return "hashed:" + secret, nil }

func fixedClock() time.Time { return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC) }

func openSeeded(t *testing.T, store persistence.SnapshotStore) *DB {
	t.Helper()
	db, err := Open(context.Background(), Options{
		Snapshots: store,
		Seed:      DefaultSeed(plainHasher),
		Logger:    zaptest.NewLogger(t),
		Now:       fixedClock,
	})
	require.NoError(t, err)
	return db
}

func TestOpenSeedsAndPersistsWhenEmpty(t *testing.T) {
	store := persistence.NewMemoryStore()
	db := openSeeded(t, store)

	require.Equal(t, 1, store.Saves())

	state := db.View()
	require.Len(t, state.Stations, len(seedStations))
	for _, st := range state.Stations {
		require.True(t, st.Active, st.ID)
	}
	require.Equal(t, "hashed:password", state.Credentials["ram.singh.insp"])

	officer, _, ok := state.User(SeedOfficerID)
	require.True(t, ok)
	require.Equal(t, "ps_christiangunj", officer.StationID)

	rec, _, ok := state.Record("rec_crime_1")
	require.True(t, ok)
	require.Equal(t, 2025, rec.Year)
	require.Equal(t, models.KindDate, rec.Fields["dateRegistered"].Kind)
}

func TestSnapshotRoundTripReproducesState(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	db := openSeeded(t, store)

	require.NoError(t, db.Update(ctx, func(s *State) error {
		s.ChatMessages = append(s.ChatMessages, models.ChatMessage{
			ID: "m1", FromUserID: SeedAdminID, ToUserID: SeedOfficerID, Text: "hello",
			Attachment: &models.Attachment{DataURI: "data:text/plain;base64,aGk=", Name: "hi.txt", MimeType: "text/plain"},
			Timestamp:  fixedClock(),
		})
		s.DutyCharts[DutyChartKey{StationID: "ps_pushkar", Date: "2025-03-10"}] = models.DutyChart{
			StationID: "ps_pushkar", Date: "2025-03-10",
			Personnel:   []models.DutyPersonnel{{SNo: 1, Name: "A", Presence: "P"}},
			Assignments: []models.DutyAssignment{{Title: "Night LC", Officers: []string{"B"}}},
			Summary:     models.DutySummary{Present: 1},
		}
		return nil
	}))

	restored, err := Open(ctx, Options{Snapshots: store, Logger: zaptest.NewLogger(t), Now: fixedClock})
	require.NoError(t, err)

	before, after := db.View(), restored.View()
	require.Equal(t, before.Stations, after.Stations)
	require.Equal(t, before.Users, after.Users)
	require.Equal(t, before.Credentials, after.Credentials)
	require.Equal(t, before.Records, after.Records)
	require.Equal(t, before.ChatMessages, after.ChatMessages)
	require.Equal(t, before.Notifications, after.Notifications)
	require.Equal(t, before.ActivityLogs, after.ActivityLogs)
	require.Equal(t, before.DutyCharts, after.DutyCharts)
}

func TestUpdateRollsBackWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	db, err := Open(ctx, Options{
		Snapshots:    store,
		Seed:         DefaultSeed(plainHasher),
		Logger:       zaptest.NewLogger(t),
		Now:          fixedClock,
		SaveAttempts: 2,
	})
	require.NoError(t, err)

	boom := errors.New("disk full")
	store.FailNext(boom, boom)

	err = db.Update(ctx, func(s *State) error {
		s.Stations[0].Active = false
		return nil
	})
	require.ErrorIs(t, err, boom)
	require.True(t, db.View().Stations[0].Active, "failed commit must not be visible")

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	state, err := Decode(reloaded)
	require.NoError(t, err)
	require.True(t, state.Stations[0].Active)
}

func TestUpdateRetriesTransientSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	db := openSeeded(t, store)

	store.FailNext(errors.New("transient"))
	require.NoError(t, db.Update(ctx, func(s *State) error {
		s.Stations[0].Active = false
		return nil
	}))
	require.False(t, db.View().Stations[0].Active)
}

func TestUpdateErrorsSkipPersistence(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	db := openSeeded(t, store)
	saves := store.Saves()

	err := db.Update(ctx, func(s *State) error {
		s.Users = nil
		return ErrNoChange
	})
	require.ErrorIs(t, err, ErrNoChange)
	require.Equal(t, saves, store.Saves())
	require.NotEmpty(t, db.View().Users)
}

func TestViewIsIsolatedFromUpdates(t *testing.T) {
	ctx := context.Background()
	db := openSeeded(t, persistence.NewMemoryStore())

	snapshot := db.View()
	require.NoError(t, db.Update(ctx, func(s *State) error {
		s.Records[0].Fields["section"] = models.Text("IPC 307")
		return nil
	}))

	require.Equal(t, "IPC 302", snapshot.Records[0].Fields["section"].Text)
	require.Equal(t, "IPC 307", db.View().Records[0].Fields["section"].Text)
}

func TestDecodeRejectsUnknownDocument(t *testing.T) {
	_, err := Decode(persistence.Documents{"mystery": []byte(`[]`)})
	require.Error(t, err)

	_, err = Decode(persistence.Documents{"duty_chart/only-station": []byte(`{}`)})
	require.Error(t, err)
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
