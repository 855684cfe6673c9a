package requesttrace

import (
	"context"
	"errors"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

type contextKey string

const (
	ctxAuditInfo contextKey = "COPTRACK_REQUEST_TRACE"
)

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// AuditInfo captures request-scoped metadata needed for traceability and auditing.
// UserID and Role are set only when ActorKind is user; StationID is nil for administrators.
type AuditInfo struct {
	ActorKind ActorKind
	UserID    *string
	Role      models.Role
	StationID *string
	RequestID string
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	v := ctx.Value(ctxAuditInfo)
	if v == nil {
		return AuditInfo{}, false
	}

	audit, ok := v.(AuditInfo)
	return audit, ok
}

// FromContextOrAnonymous returns the AuditInfo stored on the context, or an anonymous record when absent.
func FromContextOrAnonymous(ctx context.Context) AuditInfo {
	if audit, ok := FromContext(ctx); ok {
		return audit
	}
	return Anonymous("")
}

// FromUser builds an AuditInfo for an authenticated principal.
func FromUser(user models.User, requestID string) (AuditInfo, error) {
	if user.ID == "" {
		return AuditInfo{}, errors.New("user id is required to build audit info")
	}

	audit := AuditInfo{
		ActorKind: ActorKindUser,
		UserID:    &user.ID,
		Role:      user.Role,
		RequestID: requestID,
	}
	if user.StationID != "" {
		audit.StationID = &user.StationID
	}
	return audit, nil
}

// Anonymous builds an AuditInfo for unauthenticated requests (login, registration).
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: requestID}
}

// System builds an AuditInfo for CLI and other background operations.
func System(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindSystem, RequestID: requestID}
}
