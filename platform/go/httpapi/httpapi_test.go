package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteProblem(t *testing.T) {
	fields := map[string][]string{"caseNumber": {"is required"}}
	problem := NewProblem("Validation failed", "one or more fields are invalid", ProblemTypeValidation, http.StatusBadRequest, fields)
	fields["caseNumber"][0] = "mutated"

	rec := httptest.NewRecorder()
	WriteProblem(rec, problem)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, []string{"is required"}, body.Errors["caseNumber"])
	require.Equal(t, ProblemTypeValidation, body.Type)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Pushkar"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	require.Equal(t, "Pushkar", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	require.ErrorIs(t, DecodeJSON(req, &dst), ErrEmptyBody)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	require.Error(t, DecodeJSON(req, &dst))
}
