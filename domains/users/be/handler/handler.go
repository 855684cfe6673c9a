package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parsa000721/CopTrack/domains/users/be/service"
	"github.com/parsa000721/CopTrack/platform/go/httpapi"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

type operation string

const (
	loginOperation    operation = "authLogin"
	registerOperation operation = "authRegister"
	meGetOperation    operation = "authMe"
	meUpdateOperation operation = "authUpdateMe"
	listOperation     operation = "usersList"
	getOperation      operation = "usersGet"
)

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user models.User) (string, time.Time, error)
}

// Handler wires the users service to HTTP.
type Handler struct {
	svc    service.Service
	tokens TokenIssuer
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, tokens TokenIssuer, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("users service is required")
	}
	if tokens == nil {
		panic("token issuer is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)
	r.Get("/auth/me", h.Me)
	r.Patch("/auth/me", h.UpdateMe)
	r.Get("/users", h.List)
	r.Get("/users/{userId}", h.Get)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      service.User `json:"user"`
}

type registerRequest struct {
	Name        string      `json:"name"`
	SSOID       string      `json:"ssoId"`
	Email       string      `json:"email"`
	Mobile      string      `json:"mobile"`
	Designation string      `json:"designation"`
	Role        models.Role `json:"role"`
	StationID   string      `json:"stationId"`
	Password    string      `json:"password"`
}

type updateMeRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Mobile          *string `json:"mobile"`
	Designation     *string `json:"designation"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	user, err := h.svc.Login(r.Context(), body.Identifier, body.Password)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, loginOperation))
		return
	}

	token, expires, err := h.tokens.Issue(user.User)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, loginOperation))
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires, User: user})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	created, err := h.svc.Register(r.Context(), service.RegisterInput(body))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, registerOperation))
		return
	}

	w.Header().Set("Location", "/api/v1/users/"+created.ID)
	httpapi.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	user, err := h.svc.Get(r.Context(), principal.ID)
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, meGetOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpapi.Principal(r)
	if !ok {
		httpapi.WriteProblem(w, httpapi.Unauthorized())
		return
	}

	var body updateMeRequest
	if err := httpapi.DecodeJSON(r, &body); err != nil {
		httpapi.WriteProblem(w, httpapi.BadRequest(err.Error()))
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), principal.ID, service.ProfileInput(body))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, meUpdateOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, listOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"items": users})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpapi.WriteProblem(w, h.problemForError(r.Context(), err, getOperation))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) problemForError(ctx context.Context, err error, op operation) httpapi.ProblemDetails {
	status, title, detail, problemType, fields := classifyError(err)

	logger := platformlogging.FromContextOr(ctx, h.logger)
	fieldsForLog := []zap.Field{
		zap.String("operation", string(op)),
		zap.Int("status", status),
	}

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("users operation failed", append(fieldsForLog, zap.Error(err))...)
	case status == http.StatusNotFound:
		logger.Info("users resource not found", append(fieldsForLog, zap.Error(err))...)
	default:
		logger.Warn("users request rejected", append(fieldsForLog, zap.Error(err))...)
	}

	return httpapi.NewProblem(title, detail, problemType, status, fields)
}

func classifyError(err error) (status int, title, detail, problemType string, fieldErrors service.FieldErrors) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest,
			"Validation failed",
			"one or more fields are invalid",
			httpapi.ProblemTypeValidation,
			validationErr.Fields
	case errors.Is(err, service.ErrInvalidCredential):
		return http.StatusUnauthorized,
			"Invalid credentials",
			err.Error(),
			httpapi.ProblemTypeUnauthorized,
			nil
	case errors.Is(err, tenant.ErrAccountDisabled):
		return http.StatusForbidden,
			"Account disabled",
			"the station of this account is inactive",
			httpapi.ProblemTypeForbidden,
			nil
	case errors.Is(err, service.ErrStationNotFound):
		return http.StatusNotFound,
			"Resource not found",
			"station not found",
			httpapi.ProblemTypeNotFound,
			nil
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound,
			"Resource not found",
			"user not found",
			httpapi.ProblemTypeNotFound,
			nil
	case errors.Is(err, service.ErrDuplicateIdentity):
		return http.StatusConflict,
			"Conflict",
			"a user with this SSO ID or email already exists",
			httpapi.ProblemTypeConflict,
			nil
	default:
		return http.StatusInternalServerError,
			"Internal server error",
			"an unexpected error occurred",
			httpapi.ProblemTypeInternal,
			nil
	}
}
