package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/domains/stations/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type operation string

const (
	listOperation   operation = "stationsList"
	getOperation    operation = "stationsGet"
	updateOperation operation = "stationsUpdate"
)

// Handler wires the stations service to HTTP.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("stations service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stations", h.List)
	r.Get("/stations/{stationId}", h.Get)
	r.Patch("/stations/{stationId}", h.Update)
}

type updateStationRequest struct {
	Active *bool `json:"active"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.svc.List(r.Context())
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, listOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": stations})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	station, err := h.svc.Get(r.Context(), chi.URLParam(r, "stationId"))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, getOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, station)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	var body updateStationRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}
	if body.Active == nil {
		httpapi.WriteProblem(w, httpapi.NewProblem("Validation failed", "one or more fields are invalid",
			httpapi.ProblemTypeValidation, http.StatusBadRequest, map[string][]string{"active": {"is required"}}))
		return
	}

	station, err := h.svc.SetActive(r.Context(), actor, chi.URLParam(r, "stationId"), *body.Active)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, updateOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, station)
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	status, title, detail, problemType := classifyError(err)

	logger := platformlogging.FromContextOr(ctx, h.logger)
	fields := []zap.Field{zap.String("operation", string(op)), zap.Int("status", status), zap.Error(err)}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("stations operation failed", fields...)
	case status == http.StatusNotFound:
		logger.Info("station not found", fields...)
	default:
		logger.Warn("stations request rejected", fields...)
	}

	return httpapi.NewProblem(title, detail, problemType, status, nil)
}

func classifyError(err error) (status int, title, detail, problemType string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found", "station not found", httpapi.ProblemTypeNotFound
	case errors.Is(err, tenant.ErrAccessDenied):
		return http.StatusForbidden, "Forbidden", "administrator role required", httpapi.ProblemTypeForbidden
	default:
		return http.StatusInternalServerError, "Internal server error", "an unexpected error occurred", httpapi.ProblemTypeInternal
	}
}
