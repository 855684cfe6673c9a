package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/domains/notifications/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type operation string

const (
	listOperation     operation = "notificationsList"
	sendOperation     operation = "notificationsSend"
	markReadOperation operation = "notificationsMarkRead"
	clearOperation    operation = "notificationsClear"
)

type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("notifications service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/notifications", h.List)
	r.Post("/notifications", h.Send)
	r.Post("/notifications/read", h.MarkAllRead)
	r.Delete("/notifications", h.ClearAll)
}

type listResponse struct {
	Items  []models.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

type sendRequest struct {
	UserID  string                  `json:"userId"`
	Type    models.NotificationType `json:"type"`
	Message string                  `json:"message"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	items, err := h.svc.List(r.Context(), user.ID)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, listOperation))
		return
	}
	unread, err := h.svc.UnreadCount(r.Context(), user.ID)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, listOperation))
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, listResponse{Items: items, Unread: unread})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	actor, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	var body sendRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	created, err := h.svc.Send(r.Context(), actor, body.UserID, body.Type, body.Message)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, sendOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}
	if err := h.svc.MarkAllRead(r.Context(), user.ID); err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, markReadOperation))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}
	if err := h.svc.ClearAll(r.Context(), user.ID); err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, clearOperation))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	status, title, detail, problemType, fields := classifyError(err)

	logger := platformlogging.FromContextOr(ctx, h.logger)
	fieldsForLog := []zap.Field{zap.String("operation", string(op)), zap.Int("status", status), zap.Error(err)}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("notifications operation failed", fieldsForLog...)
	case status == http.StatusNotFound:
		logger.Info("notification recipient not found", fieldsForLog...)
	default:
		logger.Warn("notifications request rejected", fieldsForLog...)
	}

	return httpapi.NewProblem(title, detail, problemType, status, fields)
}

func classifyError(err error) (status int, title, detail, problemType string, fieldErrors service.FieldErrors) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "Validation failed", "one or more fields are invalid", httpapi.ProblemTypeValidation, validationErr.Fields
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found", "user not found", httpapi.ProblemTypeNotFound, nil
	case errors.Is(err, tenant.ErrAccessDenied):
		return http.StatusForbidden, "Forbidden", "recipient is outside your station", httpapi.ProblemTypeForbidden, nil
	case errors.Is(err, tenant.ErrAccountDisabled):
		return http.StatusForbidden, "Account disabled", "your station is inactive", httpapi.ProblemTypeForbidden, nil
	default:
		return http.StatusInternalServerError, "Internal server error", "an unexpected error occurred", httpapi.ProblemTypeInternal, nil
	}
}
