package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/datastore/datastoretest"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

const day = "2025-03-14"

func TestDefaultChartSummary(t *testing.T) {
	chart := DefaultChart("ps_x", day)
	require.Len(t, chart.Personnel, 41)
	require.Equal(t, models.DutySummary{Present: 31, Absent: 5, Outstation: 5}, chart.Summary)
	require.Equal(t, "withNightDO", chart.Assignments[8].Subtext)
}

func TestGetSavesDefaultOnFirstAccess(t *testing.T) {
	store := datastoretest.New(t)
	svc := New(store.DB)
	ctx := context.Background()

	chart, err := svc.Get(ctx, datastoretest.Officer1, day)
	require.NoError(t, err)
	require.Equal(t, "ps_x", chart.StationID)
	require.Equal(t, day, chart.Date)
	require.Equal(t, 1, store.Snapshots.Saves()-1)

	_, ok := store.View().DutyCharts[datastore.DutyChartKey{StationID: "ps_x", Date: day}]
	require.True(t, ok)

	// second read is served from the store without another save
	_, err = svc.Get(ctx, datastoretest.Officer1, day)
	require.NoError(t, err)
	require.Equal(t, 1, store.Snapshots.Saves()-1)

	// stations keep separate charts
	_, err = svc.Get(ctx, datastoretest.Officer2, day)
	require.NoError(t, err)
	require.Len(t, store.View().DutyCharts, 2)
}

func TestGetInactiveStationDoesNotWrite(t *testing.T) {
	store := datastoretest.New(t, func(s *datastore.State) { s.Stations[0].Active = false })
	svc := New(store.DB)

	chart, err := svc.Get(context.Background(), datastoretest.Officer1, day)
	require.NoError(t, err)
	require.NotEmpty(t, chart.Personnel)
	require.Empty(t, store.View().DutyCharts)
}

func TestSaveRecomputesSummary(t *testing.T) {
	store := datastoretest.New(t)
	svc := New(store.DB)
	ctx := context.Background()

	saved, err := svc.Save(ctx, datastoretest.Officer1, day, models.DutyChart{
		StationID: "ps_y",
		Personnel: []models.DutyPersonnel{
			{SNo: 1, Name: "A", Presence: models.PresencePresent},
			{SNo: 2, Name: "B", Presence: models.PresenceOnLeave},
			{SNo: 3, Name: "C", Presence: models.PresenceOnLeave},
		},
		Summary: models.DutySummary{Present: 99},
	})
	require.NoError(t, err)
	require.Equal(t, "ps_x", saved.StationID)
	require.Equal(t, models.DutySummary{Present: 1, OnLeave: 2}, saved.Summary)
	require.NotNil(t, saved.Assignments)

	got, err := svc.Get(ctx, datastoretest.Officer1, day)
	require.NoError(t, err)
	require.Equal(t, saved, got)
}

func TestDutyChartGuards(t *testing.T) {
	store := datastoretest.New(t, func(s *datastore.State) { s.Stations[1].Active = false })
	svc := New(store.DB)
	ctx := context.Background()

	_, err := svc.Get(ctx, datastoretest.Admin, day)
	require.ErrorIs(t, err, tenant.ErrForbidden)

	_, err = svc.Save(ctx, datastoretest.Admin, day, models.DutyChart{})
	require.ErrorIs(t, err, tenant.ErrForbidden)

	_, err = svc.Save(ctx, datastoretest.Officer2, day, models.DutyChart{})
	require.ErrorIs(t, err, tenant.ErrAccountDisabled)

	var verr *ValidationError
	_, err = svc.Get(ctx, datastoretest.Officer1, "14/03/2025")
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "date")

	_, err = svc.Save(ctx, datastoretest.Officer1, day, models.DutyChart{
		Personnel: []models.DutyPersonnel{{SNo: 1, Presence: "X"}},
	})
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "personnel[0].presence")
}
