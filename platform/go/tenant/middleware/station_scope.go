package middleware

import (
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/parsa000721/CopTrack/platform/go/auth"
	platformlogging "github.com/parsa000721/CopTrack/platform/go/logging"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

// StationsFunc returns the current station lookup. It is called per request so status changes
// made by an administrator apply to the very next request.
type StationsFunc func() tenant.StationLookup

// WithStationScope attaches the station Scope of the authenticated principal to the context and
// tags the request logger with it. Administrators and anonymous requests pass through untouched.
// A principal whose station no longer exists is rejected; an inactive station is kept in scope
// because historic reads stay allowed.
func WithStationScope(stations StationsFunc) func(http.Handler) http.Handler {
	if stations == nil {
		panic("tenant middleware: stations func is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := platformauth.UserFromContext(r.Context())
			if !ok || user.IsAdmin() || user.StationID == "" {
				next.ServeHTTP(w, r)
				return
			}

			station, _, found := stations().Station(user.StationID)
			if !found {
				http.Error(w, "station not found", http.StatusForbidden)
				return
			}

			scope := tenant.Scope{StationID: station.ID, StationName: station.Name, Active: station.Active}
			ctx := tenant.WithScope(r.Context(), scope)
			if logger, ok := platformlogging.FromContext(ctx); ok {
				ctx = platformlogging.WithLogger(ctx, logger.With(
					zap.String("station_id", scope.StationID),
					zap.Bool("station_active", scope.Active),
				))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
