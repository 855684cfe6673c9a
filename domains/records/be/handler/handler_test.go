package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/parsa000721/CopTrack/domains/records/be/service"
	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/schema"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type mockService struct {
	listFn              func(ctx context.Context, user models.User, registerID string, year int, filters map[string]string) ([]models.Record, error)
	listAllFn           func(ctx context.Context, user models.User, registerID string) ([]models.Record, error)
	lookupOptionsFn     func(ctx context.Context, user models.User, registerID, fieldID string) ([]string, error)
	addFn               func(ctx context.Context, user models.User, registerID string, in service.AddInput) (models.Record, error)
	updateFn            func(ctx context.Context, user models.User, registerID, recordID string, fields map[string]any) (models.Record, error)
	deleteFn            func(ctx context.Context, user models.User, registerID, recordID string) error
	pendingByCategoryFn func(ctx context.Context, user models.User, tenantID string, year int, month time.Month) ([]service.CategoryCount, error)
}

func (m *mockService) List(ctx context.Context, user models.User, registerID string, year int, filters map[string]string) ([]models.Record, error) {
	if m.listFn == nil {
		panic("listFn not configured")
	}
	return m.listFn(ctx, user, registerID, year, filters)
}

func (m *mockService) ListAll(ctx context.Context, user models.User, registerID string) ([]models.Record, error) {
	if m.listAllFn == nil {
		panic("listAllFn not configured")
	}
	return m.listAllFn(ctx, user, registerID)
}

func (m *mockService) LookupOptions(ctx context.Context, user models.User, registerID, fieldID string) ([]string, error) {
	if m.lookupOptionsFn == nil {
		panic("lookupOptionsFn not configured")
	}
	return m.lookupOptionsFn(ctx, user, registerID, fieldID)
}

func (m *mockService) Add(ctx context.Context, user models.User, registerID string, in service.AddInput) (models.Record, error) {
	if m.addFn == nil {
		panic("addFn not configured")
	}
	return m.addFn(ctx, user, registerID, in)
}

func (m *mockService) Update(ctx context.Context, user models.User, registerID, recordID string, fields map[string]any) (models.Record, error) {
	if m.updateFn == nil {
		panic("updateFn not configured")
	}
	return m.updateFn(ctx, user, registerID, recordID, fields)
}

func (m *mockService) Delete(ctx context.Context, user models.User, registerID, recordID string) error {
	if m.deleteFn == nil {
		panic("deleteFn not configured")
	}
	return m.deleteFn(ctx, user, registerID, recordID)
}

func (m *mockService) PendingByCategory(ctx context.Context, user models.User, tenantID string, year int, month time.Month) ([]service.CategoryCount, error) {
	if m.pendingByCategoryFn == nil {
		panic("pendingByCategoryFn not configured")
	}
	return m.pendingByCategoryFn(ctx, user, tenantID, year, month)
}

var officer = models.User{ID: "officer1", Role: models.RoleStationOfficer, StationID: "ps_x"}

func serve(t *testing.T, svc service.Service, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req = req.WithContext(platformauth.WithUser(req.Context(), officer))
	h := New(svc, zaptest.NewLogger(t))
	r := chi.NewRouter()
	h.Routes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListPassesYearAndFilters(t *testing.T) {
	t.Parallel()

	svc := &mockService{listFn: func(_ context.Context, _ models.User, registerID string, year int, filters map[string]string) ([]models.Record, error) {
		require.Equal(t, schema.CrimeRegister, registerID)
		require.Equal(t, 2024, year)
		require.Equal(t, map[string]string{"section": "302"}, filters)
		return []models.Record{{
			ID: "r1", TenantID: "ps_x", RegisterID: registerID, Year: year,
			Fields: map[string]models.Value{"section": models.Text("302")},
		}}, nil
	}}

	rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/registers/crime_register/records?year=2024&section=302", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, "302", body.Items[0]["section"])
	require.Equal(t, "ps_x", body.Items[0]["tenantId"])

	rec = serve(t, svc, httptest.NewRequest(http.MethodGet, "/registers/crime_register/records?year=last", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRecord(t *testing.T) {
	t.Parallel()

	svc := &mockService{addFn: func(_ context.Context, user models.User, registerID string, in service.AddInput) (models.Record, error) {
		if registerID == "unknown" {
			return models.Record{}, schema.ErrUnknownRegister
		}
		if in.Fields["caseNumber"] == nil {
			return models.Record{}, &service.ValidationError{Fields: service.FieldErrors{"caseNumber": {"is required"}}}
		}
		return models.Record{ID: "r1", TenantID: user.StationID, RegisterID: registerID, Year: in.Year, Fields: map[string]models.Value{
			"caseNumber": models.Text(in.Fields["caseNumber"].(string)),
		}}, nil
	}}

	rec := serve(t, svc, httptest.NewRequest(http.MethodPost, "/registers/crime_register/records",
		strings.NewReader(`{"year":2025,"fields":{"caseNumber":"CR-1/2025","section":"302","disposalType":"Pending"}}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "/api/v1/registers/crime_register/records/r1", rec.Header().Get("Location"))
	require.Contains(t, rec.Body.String(), `"caseNumber":"CR-1/2025"`)

	rec = serve(t, svc, httptest.NewRequest(http.MethodPost, "/registers/crime_register/records", strings.NewReader(`{"year":2025,"fields":{}}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"caseNumber":["is required"]`)

	rec = serve(t, svc, httptest.NewRequest(http.MethodPost, "/registers/unknown/records", strings.NewReader(`{"fields":{"caseNumber":"x"}}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAndDeleteErrors(t *testing.T) {
	t.Parallel()

	svc := &mockService{
		updateFn: func(_ context.Context, _ models.User, _, recordID string, _ map[string]any) (models.Record, error) {
			switch recordID {
			case "foreign":
				return models.Record{}, tenant.ErrAccessDenied
			case "missing":
				return models.Record{}, service.ErrNotFound
			}
			return models.Record{ID: recordID}, nil
		},
		deleteFn: func(_ context.Context, user models.User, _, _ string) error {
			return nil
		},
	}

	update := func(id string) int {
		return serve(t, svc, httptest.NewRequest(http.MethodPatch, "/registers/crime_register/records/"+id, strings.NewReader(`{"fields":{"section":"307"}}`))).Code
	}
	require.Equal(t, http.StatusOK, update("r1"))
	require.Equal(t, http.StatusForbidden, update("foreign"))
	require.Equal(t, http.StatusNotFound, update("missing"))

	rec := serve(t, svc, httptest.NewRequest(http.MethodDelete, "/registers/crime_register/records/r1", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPendingByCategoryQuery(t *testing.T) {
	t.Parallel()

	svc := &mockService{pendingByCategoryFn: func(_ context.Context, _ models.User, tenantID string, year int, month time.Month) ([]service.CategoryCount, error) {
		require.Equal(t, "ps_x", tenantID)
		// period left to the service clock
		if year == 0 && month == 0 {
			return []service.CategoryCount{{Category: "murder", Label: "Murder", Count: 1}}, nil
		}
		require.Equal(t, 2024, year)
		require.Equal(t, time.February, month)
		return []service.CategoryCount{}, nil
	}}

	rec := serve(t, svc, httptest.NewRequest(http.MethodGet, "/reports/pending-by-category", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[{"category":"murder","label":"Murder","count":1}]}`, rec.Body.String())

	rec = serve(t, svc, httptest.NewRequest(http.MethodGet, "/reports/pending-by-category?year=2024&month=february", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = serve(t, svc, httptest.NewRequest(http.MethodGet, "/reports/pending-by-category?month=13", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseMonth(t *testing.T) {
	t.Parallel()

	m, ok := parseMonth("3")
	require.True(t, ok)
	require.Equal(t, time.March, m)

	m, ok = parseMonth("December")
	require.True(t, ok)
	require.Equal(t, time.December, m)

	_, ok = parseMonth("Smarch")
	require.False(t, ok)
}
