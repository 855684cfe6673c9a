// Package handler serves the register catalog read-only.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	recordsservice "github.com/parsa000721/CopTrack/domains/records/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/schema"
)

type operation string

const (
	listOperation    operation = "registersList"
	getOperation     operation = "registersGet"
	optionsOperation operation = "registersFieldOptions"
)

// OptionsSource resolves the option list of a lookup field for the caller's station.
type OptionsSource interface {
	LookupOptions(ctx context.Context, user models.User, registerID, fieldID string) ([]string, error)
}

type Handler struct {
	catalog *schema.Catalog
	options OptionsSource
	logger  *zap.Logger
}

func New(catalog *schema.Catalog, options OptionsSource, logger *zap.Logger) *Handler {
	if catalog == nil {
		panic("schema catalog is required")
	}
	if options == nil {
		panic("options source is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{catalog: catalog, options: options, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/registers", h.List)
	r.Get("/registers/{registerId}", h.Get)
	r.Get("/registers/{registerId}/fields/{fieldId}/options", h.FieldOptions)
}

func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": h.catalog.Registers()})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	reg, err := h.catalog.Register(chi.URLParam(r, "registerId"))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, getOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) FieldOptions(w http.ResponseWriter, r *http.Request) {
	user, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	options, err := h.options.LookupOptions(r.Context(), user, chi.URLParam(r, "registerId"), chi.URLParam(r, "fieldId"))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, optionsOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": options})
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	logger := platformlogging.FromContextOr(ctx, h.logger)
	fields := []zap.Field{zap.String("operation", string(op)), zap.Error(err)}

	switch {
	case errors.Is(err, schema.ErrUnknownRegister):
		logger.Info("register not found", fields...)
		return httpapi.NewProblem("Resource not found", "register not found", httpapi.ProblemTypeNotFound, http.StatusNotFound, nil)
	case errors.Is(err, recordsservice.ErrNoLookup):
		logger.Info("lookup field not found", fields...)
		return httpapi.NewProblem("Resource not found", "field has no lookup options", httpapi.ProblemTypeNotFound, http.StatusNotFound, nil)
	default:
		logger.Error("registers operation failed", fields...)
		return httpapi.NewProblem("Internal server error", "an unexpected error occurred", httpapi.ProblemTypeInternal, http.StatusInternalServerError, nil)
	}
}
