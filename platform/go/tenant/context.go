package tenant

import "context"

// Scope captures the station a request acts for. Middleware attaches it once the principal
// has been resolved; administrators carry no Scope.
type Scope struct {
	StationID   string
	StationName string
	Active      bool
}

type ctxKey string

const scopeKey ctxKey = "COPTRACK_STATION_SCOPE"

// WithScope returns a derived context carrying the station Scope.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// FromContext extracts the station Scope and a boolean indicating presence.
func FromContext(ctx context.Context) (Scope, bool) {
	v := ctx.Value(scopeKey)
	if v == nil {
		return Scope{}, false
	}

	scope, ok := v.(Scope)
	return scope, ok
}
