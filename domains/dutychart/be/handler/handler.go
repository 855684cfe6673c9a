package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/domains/dutychart/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type operation string

const (
	getOperation  operation = "dutyChartGet"
	saveOperation operation = "dutyChartSave"
)

type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("duty chart service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/duty-charts/{date}", h.Get)
	r.Put("/duty-charts/{date}", h.Save)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	chart, err := h.svc.Get(r.Context(), user, chi.URLParam(r, "date"))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, getOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, chart)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	var body models.DutyChart
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	chart, err := h.svc.Save(r.Context(), user, chi.URLParam(r, "date"), body)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, saveOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, chart)
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	status, title, detail, problemType, fieldErrors := classifyError(err)

	logger := platformlogging.FromContextOr(ctx, h.logger)
	fields := []zap.Field{zap.String("operation", string(op)), zap.Int("status", status), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		logger.Error("duty chart operation failed", fields...)
	} else {
		logger.Warn("duty chart request rejected", fields...)
	}

	return httpapi.NewProblem(title, detail, problemType, status, fieldErrors)
}

func classifyError(err error) (status int, title, detail, problemType string, fieldErrors service.FieldErrors) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "Validation failed", "one or more fields are invalid", httpapi.ProblemTypeValidation, validationErr.Fields
	case errors.Is(err, tenant.ErrForbidden):
		return http.StatusForbidden, "Forbidden", "duty charts belong to a station", httpapi.ProblemTypeForbidden, nil
	case errors.Is(err, tenant.ErrAccountDisabled):
		return http.StatusForbidden, "Account disabled", "your station is inactive", httpapi.ProblemTypeForbidden, nil
	case errors.Is(err, tenant.ErrAccessDenied):
		return http.StatusForbidden, "Forbidden", "access denied", httpapi.ProblemTypeForbidden, nil
	default:
		return http.StatusInternalServerError, "Internal server error", "an unexpected error occurred", httpapi.ProblemTypeInternal, nil
	}
}
