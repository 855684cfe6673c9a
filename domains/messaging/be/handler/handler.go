package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/domains/messaging/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type operation string

const (
	historyOperation  operation = "messagesHistory"
	sendOperation     operation = "messagesSend"
	markReadOperation operation = "messagesMarkRead"
	unreadOperation   operation = "messagesUnread"
	presenceOperation operation = "presenceList"
)

type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("messaging service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/messages/unread", h.Unread)
	r.Get("/messages/{userId}", h.History)
	r.Post("/messages/{userId}", h.Send)
	r.Post("/messages/{userId}/read", h.MarkRead)
	r.Get("/presence", h.Presence)
}

type attachmentRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	// Data is base64 in JSON.
	Data []byte `json:"data"`
}

type sendRequest struct {
	Text       string             `json:"text"`
	Attachment *attachmentRequest `json:"attachment"`
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	items, err := h.svc.History(r.Context(), user.ID, chi.URLParam(r, "userId"))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, historyOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	var body sendRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	in := service.SendInput{Text: body.Text}
	if body.Attachment != nil {
		in.Attachment = &service.AttachmentInput{
			Name:     body.Attachment.Name,
			MimeType: body.Attachment.MimeType,
			Data:     body.Attachment.Data,
		}
	}

	msg, err := h.svc.Send(r.Context(), user.ID, chi.URLParam(r, "userId"), in)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, sendOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, msg)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	if err := h.svc.MarkRead(r.Context(), user.ID, chi.URLParam(r, "userId")); err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, markReadOperation))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	counts, err := h.svc.UnreadCounts(r.Context(), user.ID)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, unreadOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"counts": counts})
}

func (h *Handler) Presence(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	online, err := h.svc.OnlineUsers(r.Context(), user.ID)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, presenceOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"online": online})
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	status, title, detail, problemType := classifyError(err)

	logger := platformlogging.FromContextOr(ctx, h.logger)
	fields := []zap.Field{zap.String("operation", string(op)), zap.Int("status", status), zap.Error(err)}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("messaging operation failed", fields...)
	case status == http.StatusNotFound:
		logger.Info("conversation party not found", fields...)
	default:
		logger.Warn("messaging request rejected", fields...)
	}

	var fieldErrors map[string][]string
	if errors.Is(err, service.ErrEmptyMessage) {
		fieldErrors = map[string][]string{"text": {"text or attachment is required"}}
	}
	return httpapi.NewProblem(title, detail, problemType, status, fieldErrors)
}

func classifyError(err error) (status int, title, detail, problemType string) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest, "Validation failed", "message is empty", httpapi.ProblemTypeValidation
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Resource not found", "user not found", httpapi.ProblemTypeNotFound
	case errors.Is(err, tenant.ErrAccountDisabled):
		return http.StatusForbidden, "Account disabled", "your station is inactive", httpapi.ProblemTypeForbidden
	default:
		return http.StatusInternalServerError, "Internal server error", "an unexpected error occurred", httpapi.ProblemTypeInternal
	}
}

