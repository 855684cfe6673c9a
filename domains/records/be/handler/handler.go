package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/domains/records/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/schema"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type operation string

const (
	listOperation    operation = "recordsList"
	createOperation  operation = "recordsCreate"
	updateOperation  operation = "recordsUpdate"
	deleteOperation  operation = "recordsDelete"
	pendingOperation operation = "reportsPendingByCategory"
)

// Handler exposes the record store and its reports.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("records service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/registers/{registerId}/records", h.List)
	r.Post("/registers/{registerId}/records", h.Create)
	r.Patch("/registers/{registerId}/records/{recordId}", h.Update)
	r.Delete("/registers/{registerId}/records/{recordId}", h.Delete)
	r.Get("/reports/pending-by-category", h.PendingByCategory)
}

type createRecordRequest struct {
	Year   int            `json:"year"`
	Fields map[string]any `json:"fields"`
}

type updateRecordRequest struct {
	Fields map[string]any `json:"fields"`
}

// List serves ?year= plus any other query parameter as an exact-match field filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	query := r.URL.Query()
	year := 0
	if raw := query.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpapi.WriteProblem(w, httpapi.BadRequest("year must be an integer"))
			return
		}
		year = parsed
	}

	filters := map[string]string{}
	for key, values := range query {
		if key == "year" || key == "access_token" || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}

	records, err := h.svc.List(r.Context(), user, chi.URLParam(r, "registerId"), year, filters)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, listOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": plain(records)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	var body createRecordRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	rec, err := h.svc.Add(r.Context(), user, chi.URLParam(r, "registerId"), service.AddInput(body))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, createOperation))
		return
	}

	w.Header().Set("Location", "/api/v1/registers/"+rec.RegisterID+"/records/"+rec.ID)
	httpapi.WriteJSON(w, http.StatusCreated, rec.Plain())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	var body updateRecordRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	rec, err := h.svc.Update(r.Context(), user, chi.URLParam(r, "registerId"), chi.URLParam(r, "recordId"), body.Fields)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, updateOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, rec.Plain())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	if err := h.svc.Delete(r.Context(), user, chi.URLParam(r, "registerId"), chi.URLParam(r, "recordId")); err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, deleteOperation))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PendingByCategory serves ?stationId=&year=&month=. The station defaults to the caller's,
// the period to the current month; month accepts a number or an English month name.
func (h *Handler) PendingByCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	query := r.URL.Query()

	stationID := query.Get("stationId")
	if stationID == "" {
		stationID = user.StationID
	}

	year := 0
	if raw := query.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpapi.WriteProblem(w, httpapi.BadRequest("year must be an integer"))
			return
		}
		year = parsed
	}

	var month time.Month
	if raw := query.Get("month"); raw != "" {
		parsed, ok := parseMonth(raw)
		if !ok {
			httpapi.WriteProblem(w, httpapi.BadRequest("month must be 1-12 or a month name"))
			return
		}
		month = parsed
	}

	report, err := h.svc.PendingByCategory(r.Context(), user, stationID, year, month)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, pendingOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": report})
}

func parseMonth(raw string) (time.Month, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Month(n), n >= 1 && n <= 12
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), raw) {
			return m, true
		}
	}
	return 0, false
}

func plain(records []models.Record) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Plain())
	}
	return out
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	status, title, detail, problemType, fieldErrors := classifyError(err)

	logger := platformlogging.FromContextOr(ctx, h.logger)
	fields := []zap.Field{zap.String("operation", string(op)), zap.Int("status", status), zap.Error(err)}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("records operation failed", fields...)
	case status == http.StatusNotFound:
		logger.Info("record or register not found", fields...)
	default:
		logger.Warn("records request rejected", fields...)
	}

	return httpapi.NewProblem(title, detail, problemType, status, fieldErrors)
}

func classifyError(err error) (status int, title, detail, problemType string, fieldErrors service.FieldErrors) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "Validation failed", "one or more fields are invalid", httpapi.ProblemTypeValidation, validationErr.Fields
	case errors.Is(err, schema.ErrUnknownRegister):
		return http.StatusNotFound, "Resource not found", "register not found", httpapi.ProblemTypeNotFound, nil
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found", "record not found", httpapi.ProblemTypeNotFound, nil
	case errors.Is(err, tenant.ErrForbidden):
		return http.StatusForbidden, "Forbidden", "administrators cannot change station registers", httpapi.ProblemTypeForbidden, nil
	case errors.Is(err, tenant.ErrAccountDisabled):
		return http.StatusForbidden, "Account disabled", "your station is inactive", httpapi.ProblemTypeForbidden, nil
	case errors.Is(err, tenant.ErrAccessDenied):
		return http.StatusForbidden, "Forbidden", "record belongs to another station", httpapi.ProblemTypeForbidden, nil
	default:
		return http.StatusInternalServerError, "Internal server error", "an unexpected error occurred", httpapi.ProblemTypeInternal, nil
	}
}
