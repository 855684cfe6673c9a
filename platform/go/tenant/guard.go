package tenant

import (
	"errors"
	"fmt"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

var (
	// ErrAccessDenied is returned when the principal's station does not own the target data.
	ErrAccessDenied = errors.New("access denied")
	// ErrForbidden is returned when the principal has no station scope at all (administrators).
	ErrForbidden = fmt.Errorf("%w: principal has no station scope", ErrAccessDenied)
	// ErrAccountDisabled is returned when the principal's station is inactive or missing.
	ErrAccountDisabled = errors.New("account disabled")
)

// StationLookup resolves station status; *datastore.State satisfies it.
type StationLookup interface {
	Station(id string) (models.Station, int, bool)
}

// Authorize allows a station-scoped operation only when the principal belongs to tenantID.
func Authorize(user models.User, tenantID string) error {
	if user.IsAdmin() || user.StationID == "" {
		return ErrForbidden
	}
	if user.StationID != tenantID {
		return fmt.Errorf("%w: station %s", ErrAccessDenied, tenantID)
	}
	return nil
}

// AuthorizeWrite is Authorize plus the requirement that the station is active.
func AuthorizeWrite(stations StationLookup, user models.User, tenantID string) error {
	if err := Authorize(user, tenantID); err != nil {
		return err
	}
	return RequireActive(stations, user)
}

// RequireActive fails with ErrAccountDisabled when a non-admin's station is missing or inactive.
func RequireActive(stations StationLookup, user models.User) error {
	if user.IsAdmin() {
		return nil
	}
	st, _, ok := stations.Station(user.StationID)
	if !ok || !st.Active {
		return ErrAccountDisabled
	}
	return nil
}

// ReadScope returns the station whose data the principal may read. Administrators have none,
// and readers return empty results for them instead of failing.
func ReadScope(user models.User) (string, bool) {
	if user.IsAdmin() || user.StationID == "" {
		return "", false
	}
	return user.StationID, true
}

// RequireAdmin guards station and roster administration.
func RequireAdmin(user models.User) error {
	if !user.IsAdmin() {
		return fmt.Errorf("%w: administrator role required", ErrAccessDenied)
	}
	return nil
}
