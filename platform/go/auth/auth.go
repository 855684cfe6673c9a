package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

type ctxKey string

const (
	ctxPrincipal ctxKey = "COPTRACK_PRINCIPAL"
)

// WithUser stores the authenticated principal on the context.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, ctxPrincipal, user)
}

// UserFromContext returns the authenticated principal, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	v := ctx.Value(ctxPrincipal)
	if v == nil {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}

// VerifyFunc validates the incoming bearer token and returns its claims.
type VerifyFunc func(ctx context.Context, token string) (*Claims, error)

// ResolveFunc loads the current principal for a verified subject. Returning an error rejects the token.
type ResolveFunc func(ctx context.Context, userID string) (models.User, error)

// JWT parses the bearer token, resolves the principal and stores it on the context.
// Requests without a token pass through anonymously; routes that need a principal reject them later.
func JWT(verify VerifyFunc, resolve ResolveFunc) func(http.Handler) http.Handler {
	if verify == nil {
		panic("auth.JWT: verify func must not be nil")
	}
	if resolve == nil {
		panic("auth.JWT: resolve func must not be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := ExtractJWTToken(r)
			if token == "" || !found {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verify(r.Context(), token)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			user, err := resolve(r.Context(), claims.Subject)
			if err != nil {
				unauthorized(w, "unknown principal")
				return
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	description = strings.ReplaceAll(description, `"`, `'`)
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="api", error="invalid_token", error_description="%s"`, description))
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// ExtractJWTToken reads a bearer token from the Authorization header, falling back to the
// access_token query parameter used by EventSource clients that cannot set headers.
func ExtractJWTToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("access_token"); token != "" {
			return token, true
		}
		return "", false
	}

	const prefix = "Bearer "
	// Case-insensitive prefix match.
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}

	return strings.TrimSpace(authHeader[len(prefix):]), true
}
