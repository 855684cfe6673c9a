package contracts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	spec, err := Load()
	require.NoError(t, err)

	require.NotNil(t, spec.Components.SecuritySchemes["bearerAuth"])
	require.Len(t, spec.Servers, 1)
	require.Equal(t, "/api/v1", spec.Servers[0].URL)

	login := spec.Paths.Find("/auth/login")
	require.NotNil(t, login)
	require.NotNil(t, login.Post.Security)
	require.Empty(t, *login.Post.Security)

	for _, path := range []string{
		"/stations/{stationId}",
		"/registers/{registerId}/records/{recordId}",
		"/reports/pending-by-category",
		"/duty-charts/{date}",
		"/messages/{userId}/read",
		"/events",
	} {
		require.NotNil(t, spec.Paths.Find(path), path)
	}
}

func TestRawIsACopy(t *testing.T) {
	first := Raw()
	first[0] = 'x'
	require.NotEqual(t, first[0], Raw()[0])
}
