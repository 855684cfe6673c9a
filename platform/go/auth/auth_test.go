package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

func TestExtractJWTToken(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		query  string
		want   string
		found  bool
	}{
		{name: "bearer header", header: "Bearer abc", want: "abc", found: true},
		{name: "lower case scheme", header: "bearer abc ", want: "abc", found: true},
		{name: "basic scheme", header: "Basic abc", found: false},
		{name: "query fallback", query: "xyz", want: "xyz", found: true},
		{name: "missing", found: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/"
			if tc.query != "" {
				target = "/?access_token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, found := ExtractJWTToken(req)
			require.Equal(t, tc.found, found)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestJWTMiddleware(t *testing.T) {
	tokens, err := NewTokens("0123456789abcdef0123", time.Hour)
	require.NoError(t, err)

	officer := models.User{ID: "u1", Name: "Ram", Role: models.RoleStationOfficer, StationID: "ps_x"}
	resolve := func(_ context.Context, id string) (models.User, error) {
		if id == officer.ID {
			return officer, nil
		}
		return models.User{}, errors.New("not found")
	}

	var seen *models.User
	handler := JWT(tokens.Verifier(), resolve)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := UserFromContext(r.Context()); ok {
			seen = &u
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("anonymous passes through", func(t *testing.T) {
		seen = nil
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Nil(t, seen)
	})

	t.Run("valid token attaches principal", func(t *testing.T) {
		seen = nil
		token, _, err := tokens.Issue(officer)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		require.Equal(t, "ps_x", seen.StationID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("unknown subject rejected", func(t *testing.T) {
		token, _, err := tokens.Issue(models.User{ID: "ghost"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
