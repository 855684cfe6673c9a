package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	"github.com/parsa000721/CopTrack/platform/go/models"
)

// Problem type URIs shared by every handler package.
const (
	ProblemTypeValidation   = "https://coptrack.dev/problems/validation-error"
	ProblemTypeUnauthorized = "https://coptrack.dev/problems/unauthorized"
	ProblemTypeForbidden    = "https://coptrack.dev/problems/forbidden"
	ProblemTypeNotFound     = "https://coptrack.dev/problems/not-found"
	ProblemTypeConflict     = "https://coptrack.dev/problems/conflict"
	ProblemTypeInternal     = "https://coptrack.dev/problems/internal-error"
)

// MaxBodyBytes bounds request bodies; chat attachments are the largest payloads.
const MaxBodyBytes = 8 << 20

// ErrEmptyBody is returned by DecodeJSON for a missing request body.
var ErrEmptyBody = errors.New("request body is required")

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a single JSON document from the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// Principal returns the authenticated user of the request.
func Principal(r *http.Request) (models.User, bool) {
	return platformauth.UserFromContext(r.Context())
}

// BadRequest is the problem for malformed input that never reached a service.
func BadRequest(detail string) ProblemDetails {
	return NewProblem("Invalid request", detail, ProblemTypeValidation, http.StatusBadRequest, nil)
}

// Unauthorized is the problem for requests that reached a handler without a principal.
func Unauthorized() ProblemDetails {
	return NewProblem("Unauthorized", "missing credentials", ProblemTypeUnauthorized, http.StatusUnauthorized, nil)
}
