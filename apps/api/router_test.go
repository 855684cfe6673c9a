package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	messagingservice "github.com/parsa000721/CopTrack/domains/messaging/be/service"
	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/datastore/datastoretest"
	"github.com/parsa000721/CopTrack/platform/go/events"
	"github.com/parsa000721/CopTrack/platform/go/models"
)

type testServer struct {
	handler http.Handler
	tokens  *platformauth.Tokens
	bus     *events.Bus
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	store := datastoretest.New(t)
	tokens, err := platformauth.NewTokens("router-test-secret-0123", time.Hour)
	require.NoError(t, err)
	bus := events.NewBus(zaptest.NewLogger(t), 8)
	t.Cleanup(bus.Close)

	handler, err := newRouter(app{
		logger:    zaptest.NewLogger(t),
		db:        store.DB,
		bus:       bus,
		tokens:    tokens,
		hasher:    datastoretest.PlainHasher{},
		presence:  messagingservice.NoPresence{},
		heartbeat: time.Hour,
	})
	require.NoError(t, err)

	return testServer{handler: handler, tokens: tokens, bus: bus}
}

func (s testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s testServer) token(t *testing.T, user models.User) string {
	t.Helper()
	tok, _, err := s.tokens.Issue(user)
	require.NoError(t, err)
	return tok
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/docs/openapi.yaml", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = srv.do(t, http.MethodGet, "/openapi/coptrack.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"/auth/login"`)
}

func TestLoginThenMe(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", `{"identifier":"officer1","password":"officer1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	require.Equal(t, datastoretest.Officer1.ID, login.User.ID)

	rec = srv.do(t, http.MethodGet, "/api/v1/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":"officer1"`)
}

func TestContractEnforcement(t *testing.T) {
	srv := newTestServer(t)
	officer := srv.token(t, datastoretest.Officer1)

	// bearer scheme without a principal
	rec := srv.do(t, http.MethodGet, "/api/v1/stations", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	// required body property missing
	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", `{"identifier":"officer1"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/not-a-route", "", officer)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/stations", "", "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")

	rec = srv.do(t, http.MethodGet, "/api/v1/stations", "", officer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ps_y")
}

func TestStationScopedRoutes(t *testing.T) {
	srv := newTestServer(t)
	officer := srv.token(t, datastoretest.Officer1)
	admin := srv.token(t, datastoretest.Admin)

	rec := srv.do(t, http.MethodGet, "/api/v1/registers", "", officer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "crime_register")

	rec = srv.do(t, http.MethodGet, "/api/v1/registers/crime_register/records?year=2025", "", officer)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/duty-charts/2025-03-14", "", admin)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/v1/stations/ps_y", `{"active":false}`, officer)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/v1/stations/ps_y", `{"active":false}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEventStreamRelaysOwnEvents(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	token := srv.token(t, datastoretest.Officer1)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events?access_token="+token, nil)
	require.NoError(t, err)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(want string) {
		t.Helper()
		for lines.Scan() {
			if lines.Text() == want {
				return
			}
		}
		t.Fatalf("stream ended before %q: %v", want, lines.Err())
	}

	waitFor("event:ready")

	// addressed to someone else, never relayed
	srv.bus.Publish(events.NotificationsRead(datastoretest.Officer2.ID))
	srv.bus.Publish(events.NotificationsCleared(datastoretest.Officer1.ID))

	for lines.Scan() {
		line := lines.Text()
		require.NotEqual(t, "event:notificationsRead", line)
		if line == "event:notificationsCleared" {
			return
		}
	}
	t.Fatalf("stream ended: %v", lines.Err())
}
