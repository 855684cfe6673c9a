package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/domains/activity/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
)

type operation string

const recentOperation operation = "activityRecent"

// Handler serves the activity feed.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("activity service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the handler on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/activity", h.Recent)
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpapi.WriteProblem(w, httpapi.BadRequest("limit must be an integer"))
			return
		}
		limit = n
	}

	logs, err := h.svc.Recent(r.Context(), user, limit)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, recentOperation))
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": logs})
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	status, title, detail, problemType := classifyError(err)

	logger := platformlogging.FromContextOr(ctx, h.logger)
	fields := []zap.Field{zap.String("operation", string(op)), zap.Int("status", status), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		logger.Error("activity operation failed", fields...)
	} else {
		logger.Warn("activity request rejected", fields...)
	}

	return httpapi.NewProblem(title, detail, problemType, status, nil)
}

func classifyError(err error) (status int, title, detail, problemType string) {
	switch {
	case errors.Is(err, service.ErrInvalidLimit):
		return http.StatusBadRequest, "Validation failed", "limit must be between 1 and 100", httpapi.ProblemTypeValidation
	default:
		return http.StatusInternalServerError, "Internal server error", "an unexpected error occurred", httpapi.ProblemTypeInternal
	}
}
