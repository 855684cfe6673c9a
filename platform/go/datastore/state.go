package datastore

import (
	"strings"
	"time"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

// DutyChartKey addresses one station's chart for one day.
type DutyChartKey struct {
	StationID string
	Date      string
}

// State is the whole in-memory database. A published State is never mutated; Update works on a clone.
type State struct {
	Stations      []models.Station
	Users         []models.User
	Credentials   map[string]string // ssoId -> bcrypt hash
	Records       []models.Record
	ActivityLogs  []models.ActivityLog
	ChatMessages  []models.ChatMessage
	Notifications []models.Notification
	DutyCharts    map[DutyChartKey]models.DutyChart
}

func emptyState() *State {
	return &State{
		Credentials: map[string]string{},
		DutyCharts:  map[DutyChartKey]models.DutyChart{},
	}
}

// Clone deep-copies the state.
func (s *State) Clone() *State {
	out := &State{
		Stations:      append([]models.Station(nil), s.Stations...),
		Users:         append([]models.User(nil), s.Users...),
		Credentials:   make(map[string]string, len(s.Credentials)),
		Records:       make([]models.Record, len(s.Records)),
		ActivityLogs:  append([]models.ActivityLog(nil), s.ActivityLogs...),
		ChatMessages:  make([]models.ChatMessage, len(s.ChatMessages)),
		Notifications: append([]models.Notification(nil), s.Notifications...),
		DutyCharts:    make(map[DutyChartKey]models.DutyChart, len(s.DutyCharts)),
	}
	for k, v := range s.Credentials {
		out.Credentials[k] = v
	}
	for i, r := range s.Records {
		out.Records[i] = r.Clone()
	}
	for i, m := range s.ChatMessages {
		if m.Attachment != nil {
			a := *m.Attachment
			m.Attachment = &a
		}
		out.ChatMessages[i] = m
	}
	for k, v := range s.DutyCharts {
		out.DutyCharts[k] = v.Clone()
	}
	return out
}

// Station returns the station and its index.
func (s *State) Station(id string) (models.Station, int, bool) {
	for i, st := range s.Stations {
		if st.ID == id {
			return st, i, true
		}
	}
	return models.Station{}, -1, false
}

// StationName returns the display name of a station, or "" when unknown.
func (s *State) StationName(id string) string {
	st, _, _ := s.Station(id)
	return st.Name
}

// User returns the user and its index.
func (s *State) User(id string) (models.User, int, bool) {
	for i, u := range s.Users {
		if u.ID == id {
			return u, i, true
		}
	}
	return models.User{}, -1, false
}

// UserByIdentity matches an ssoId exactly or an email case-insensitively.
func (s *State) UserByIdentity(identifier string) (models.User, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return models.User{}, false
	}
	for _, u := range s.Users {
		if u.SSOID == identifier || strings.EqualFold(u.Email, identifier) {
			return u, true
		}
	}
	return models.User{}, false
}

// Record returns the record and its index.
func (s *State) Record(id string) (models.Record, int, bool) {
	for i, r := range s.Records {
		if r.ID == id {
			return r, i, true
		}
	}
	return models.Record{}, -1, false
}

// adminPanel is the station label recorded for administrator actions.
const adminPanel = "Admin Panel"

// LogActivity appends an audit entry for actor. The station name is resolved from the current state.
func (s *State) LogActivity(actor models.User, action string, at time.Time) models.ActivityLog {
	entry := models.ActivityLog{
		ID:        NewID(),
		UserID:    actor.ID,
		UserName:  actor.Name,
		StationID: actor.StationID,
		Action:    action,
		Timestamp: at,
	}
	if actor.StationID != "" {
		entry.StationName = s.StationName(actor.StationID)
	} else if actor.IsAdmin() {
		entry.StationName = adminPanel
	}
	s.ActivityLogs = append(s.ActivityLogs, entry)
	return entry
}

// AddNotification appends an unread notification for userID.
func (s *State) AddNotification(userID string, typ models.NotificationType, message string, at time.Time) models.Notification {
	n := models.Notification{
		ID:        NewID(),
		UserID:    userID,
		Type:      typ,
		Message:   message,
		Timestamp: at,
	}
	s.Notifications = append(s.Notifications, n)
	return n
}
