package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/parsa000721/CopTrack/domains/messaging/be/service"
	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type mockService struct {
	historyFn      func(ctx context.Context, userA, userB string) ([]models.ChatMessage, error)
	sendFn         func(ctx context.Context, fromID, toID string, in service.SendInput) (models.ChatMessage, error)
	markReadFn     func(ctx context.Context, readerID, otherID string) error
	unreadCountsFn func(ctx context.Context, userID string) (map[string]int, error)
	onlineUsersFn  func(ctx context.Context, userID string) ([]string, error)
}

func (m *mockService) History(ctx context.Context, userA, userB string) ([]models.ChatMessage, error) {
	if m.historyFn == nil {
		panic("historyFn not configured")
	}
	return m.historyFn(ctx, userA, userB)
}

func (m *mockService) Send(ctx context.Context, fromID, toID string, in service.SendInput) (models.ChatMessage, error) {
	if m.sendFn == nil {
		panic("sendFn not configured")
	}
	return m.sendFn(ctx, fromID, toID, in)
}

func (m *mockService) MarkRead(ctx context.Context, readerID, otherID string) error {
	if m.markReadFn == nil {
		panic("markReadFn not configured")
	}
	return m.markReadFn(ctx, readerID, otherID)
}

func (m *mockService) UnreadCounts(ctx context.Context, userID string) (map[string]int, error) {
	if m.unreadCountsFn == nil {
		panic("unreadCountsFn not configured")
	}
	return m.unreadCountsFn(ctx, userID)
}

func (m *mockService) OnlineUsers(ctx context.Context, userID string) ([]string, error) {
	if m.onlineUsersFn == nil {
		panic("onlineUsersFn not configured")
	}
	return m.onlineUsersFn(ctx, userID)
}

var officer = models.User{ID: "officer1", Role: models.RoleStationOfficer, StationID: "ps_x"}

func serve(t *testing.T, svc service.Service, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req = req.WithContext(platformauth.WithUser(req.Context(), officer))
	r := chi.NewRouter()
	New(svc, zaptest.NewLogger(t)).Routes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSendDecodesAttachment(t *testing.T) {
	t.Parallel()

	var got service.SendInput
	svc := &mockService{sendFn: func(_ context.Context, fromID, toID string, in service.SendInput) (models.ChatMessage, error) {
		require.Equal(t, "officer1", fromID)
		require.Equal(t, "officer2", toID)
		got = in
		return models.ChatMessage{ID: "m1", FromUserID: fromID, ToUserID: toID}, nil
	}}

	body := `{"text":"see file","attachment":{"name":"a.txt","data":"` + base64.StdEncoding.EncodeToString([]byte("hello")) + `"}}`
	rec := serve(t, svc, httptest.NewRequest(http.MethodPost, "/messages/officer2", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "see file", got.Text)
	require.NotNil(t, got.Attachment)
	require.Equal(t, []byte("hello"), got.Attachment.Data)
	require.Equal(t, "a.txt", got.Attachment.Name)
}

func TestSendErrors(t *testing.T) {
	t.Parallel()

	svc := &mockService{sendFn: func(_ context.Context, _, toID string, in service.SendInput) (models.ChatMessage, error) {
		switch {
		case in.Text == "":
			return models.ChatMessage{}, service.ErrEmptyMessage
		case toID == "ghost":
			return models.ChatMessage{}, service.ErrNotFound
		default:
			return models.ChatMessage{}, tenant.ErrAccountDisabled
		}
	}}

	rec := serve(t, svc, httptest.NewRequest(http.MethodPost, "/messages/officer2", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "text or attachment is required")

	rec = serve(t, svc, httptest.NewRequest(http.MethodPost, "/messages/ghost", strings.NewReader(`{"text":"hi"}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, svc, httptest.NewRequest(http.MethodPost, "/messages/officer2", strings.NewReader(`{"text":"hi"}`)))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnreadIsNotAConversation(t *testing.T) {
	t.Parallel()

	svc := &mockService{unreadCountsFn: func(_ context.Context, userID string) (map[string]int, error) {
		require.Equal(t, "officer1", userID)
		return map[string]int{"officer2": 2}, nil
	}}

	rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/messages/unread", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Counts["officer2"])
}

func TestHistoryReadAndPresence(t *testing.T) {
	t.Parallel()

	var readFrom string
	svc := &mockService{
		historyFn: func(_ context.Context, a, b string) ([]models.ChatMessage, error) {
			return []models.ChatMessage{{ID: "m1", FromUserID: a, ToUserID: b}}, nil
		},
		markReadFn:    func(_ context.Context, _, otherID string) error { readFrom = otherID; return nil },
		onlineUsersFn: func(context.Context, string) ([]string, error) { return []string{"officer2"}, nil },
	}

	rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/messages/officer2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":"m1"`)

	rec = serve(t, svc, httptest.NewRequest(http.MethodPost, "/messages/officer2/read", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "officer2", readFrom)

	rec = serve(t, svc, httptest.NewRequest(http.MethodGet, "/presence", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"online":["officer2"]}`, rec.Body.String())
}
