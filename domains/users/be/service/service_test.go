package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	stationsservice "github.com/parsa000721/CopTrack/domains/stations/be/service"
	"github.com/parsa000721/CopTrack/platform/go/datastore/datastoretest"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

func newService(t *testing.T) (Service, *datastoretest.Store) {
	t.Helper()
	store := datastoretest.New(t)
	return New(store.DB, datastoretest.PlainHasher{}), store
}

func ptr[T any](v T) *T { return &v }

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Login(ctx, "officer1", "officer1")
	require.NoError(t, err)
	require.Equal(t, "officer1", user.ID)
	require.Equal(t, "PS X", user.StationName)

	user, err = svc.Login(ctx, "ONE@example.gov", "officer1")
	require.NoError(t, err)
	require.Equal(t, "officer1", user.ID)

	admin, err := svc.Login(ctx, "admin", "admin")
	require.NoError(t, err)
	require.Equal(t, "N/A (Admin)", admin.StationName)

	_, err = svc.Login(ctx, "officer1", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, "nobody", "x")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginBlockedWhileStationInactive(t *testing.T) {
	svc, store := newService(t)
	stations := stationsservice.New(store.DB)
	ctx := context.Background()
	before := store.View().Credentials["officer1"]

	_, err := stations.SetActive(ctx, datastoretest.Admin, "ps_x", false)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "officer1", "officer1")
	require.ErrorIs(t, err, tenant.ErrAccountDisabled)

	// admins have no station and are unaffected
	_, err = svc.Login(ctx, "admin", "admin")
	require.NoError(t, err)

	_, err = stations.SetActive(ctx, datastoretest.Admin, "ps_x", true)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "officer1", "officer1")
	require.NoError(t, err)
	require.Equal(t, before, store.View().Credentials["officer1"])
}

func TestRegister(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{
		Name: " New Constable ", SSOID: "new.c", Email: "new@example.gov",
		StationID: "ps_y", Password: "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "New Constable", created.Name)
	require.Equal(t, models.RoleUser, created.Role)
	require.Equal(t, "PS Y", created.StationName)
	require.Equal(t, "secret", store.View().Credentials["new.c"])

	logs := store.View().ActivityLogs
	require.Len(t, logs, 1)
	require.Equal(t, "ps_y", logs[0].StationID)

	_, err = svc.Login(ctx, "new.c", "secret")
	require.NoError(t, err)
}

func TestRegisterRejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		input RegisterInput
		check func(t *testing.T, err error)
	}{
		{
			name:  "duplicate ssoId",
			input: RegisterInput{Name: "X", SSOID: "officer1", Email: "x@example.gov", StationID: "ps_x", Password: "p"},
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, ErrDuplicateIdentity) },
		},
		{
			name:  "duplicate email",
			input: RegisterInput{Name: "X", SSOID: "x", Email: "TWO@example.gov", StationID: "ps_x", Password: "p"},
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, ErrDuplicateIdentity) },
		},
		{
			name:  "unknown station",
			input: RegisterInput{Name: "X", SSOID: "x", Email: "x@example.gov", StationID: "ps_nowhere", Password: "p"},
			check: func(t *testing.T, err error) { require.ErrorIs(t, err, ErrNotFound) },
		},
		{
			name:  "admin role",
			input: RegisterInput{Name: "X", SSOID: "x", Email: "x@example.gov", StationID: "ps_x", Password: "p", Role: models.RoleAdmin},
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.Contains(t, verr.Fields, "role")
			},
		},
		{
			name:  "missing fields",
			input: RegisterInput{Email: "bad"},
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.Contains(t, verr.Fields, "name")
				require.Contains(t, verr.Fields, "password")
				require.Contains(t, verr.Fields, "email")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			tc.check(t, err)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, "officer1", ProfileInput{Name: ptr("Officer Uno"), Mobile: ptr("999")})
	require.NoError(t, err)
	require.Equal(t, "Officer Uno", updated.Name)
	require.Equal(t, "999", updated.Mobile)
	require.Equal(t, "ps_x", updated.StationID)

	_, err = svc.UpdateProfile(ctx, "officer1", ProfileInput{Email: ptr("two@example.gov")})
	require.ErrorIs(t, err, ErrDuplicateIdentity)

	_, err = svc.UpdateProfile(ctx, "officer1", ProfileInput{NewPassword: "next"})
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.UpdateProfile(ctx, "officer1", ProfileInput{CurrentPassword: "wrong", NewPassword: "next"})
	require.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.UpdateProfile(ctx, "officer1", ProfileInput{CurrentPassword: "officer1", NewPassword: "next"})
	require.NoError(t, err)
	require.Equal(t, "next", store.View().Credentials["officer1"])

	saves := store.Snapshots.Saves()
	_, err = svc.UpdateProfile(ctx, "officer1", ProfileInput{Name: ptr("Officer Uno")})
	require.NoError(t, err)
	require.Equal(t, saves, store.Snapshots.Saves())

	_, err = svc.UpdateProfile(ctx, "ghost", ProfileInput{Name: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateProfile(ctx, "officer1", ProfileInput{Name: ptr("  ")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestConcurrentPasswordChangesWithSameSecret(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	next := []string{"alpha", "bravo", "charlie", "delta"}
	errs := make([]error, len(next))
	var wg sync.WaitGroup
	for i, pw := range next {
		wg.Add(1)
		go func(i int, pw string) {
			defer wg.Done()
			_, errs[i] = svc.UpdateProfile(ctx, "officer1", ProfileInput{CurrentPassword: "officer1", NewPassword: pw})
		}(i, pw)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		if err == nil {
			succeeded++
			require.Equal(t, next[i], store.View().Credentials["officer1"])
			continue
		}
		require.ErrorIs(t, err, ErrInvalidCredential)
	}
	require.Equal(t, 1, succeeded)
}

func TestGetAndList(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)
	require.Equal(t, "Admin", users[0].Name)

	got, err := svc.Get(ctx, "officer2")
	require.NoError(t, err)
	require.Equal(t, "PS Y", got.StationName)

	_, err = svc.Get(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}
