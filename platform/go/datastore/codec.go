package datastore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/persistence"
)

// Snapshot document keys.
const (
	DocStations      = "stations"
	DocUsers         = "users"
	DocCredentials   = "credentials"
	DocRecords       = "records"
	DocActivityLogs  = "activity_logs"
	DocChatMessages  = "chat_messages"
	DocNotifications = "notifications"

	dutyChartPrefix = "duty_chart/"
)

// DutyChartDocKey is the snapshot key of one duty chart.
func DutyChartDocKey(k DutyChartKey) string {
	return dutyChartPrefix + k.StationID + "/" + k.Date
}

// Encode renders the state as whole-collection documents.
func Encode(s *State) (persistence.Documents, error) {
	docs := persistence.Documents{}

	collections := []struct {
		key string
		val any
	}{
		{DocStations, nonNil(s.Stations)},
		{DocUsers, nonNil(s.Users)},
		{DocCredentials, s.Credentials},
		{DocRecords, nonNil(s.Records)},
		{DocActivityLogs, nonNil(s.ActivityLogs)},
		{DocChatMessages, nonNil(s.ChatMessages)},
		{DocNotifications, nonNil(s.Notifications)},
	}
	for _, c := range collections {
		raw, err := json.Marshal(c.val)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.key, err)
		}
		docs[c.key] = raw
	}

	for k, chart := range s.DutyCharts {
		raw, err := json.Marshal(chart)
		if err != nil {
			return nil, fmt.Errorf("encode duty chart %s/%s: %w", k.StationID, k.Date, err)
		}
		docs[DutyChartDocKey(k)] = raw
	}

	return docs, nil
}

// Decode rebuilds state from documents. Missing collections decode as empty.
func Decode(docs persistence.Documents) (*State, error) {
	s := emptyState()

	targets := map[string]any{
		DocStations:      &s.Stations,
		DocUsers:         &s.Users,
		DocCredentials:   &s.Credentials,
		DocRecords:       &s.Records,
		DocActivityLogs:  &s.ActivityLogs,
		DocChatMessages:  &s.ChatMessages,
		DocNotifications: &s.Notifications,
	}

	for key, raw := range docs {
		if target, ok := targets[key]; ok {
			if err := json.Unmarshal(raw, target); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
			continue
		}

		if rest, ok := strings.CutPrefix(key, dutyChartPrefix); ok {
			station, date, found := strings.Cut(rest, "/")
			if !found {
				return nil, fmt.Errorf("malformed duty chart key %q", key)
			}
			var chart models.DutyChart
			if err := json.Unmarshal(raw, &chart); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
			s.DutyCharts[DutyChartKey{StationID: station, Date: date}] = chart
			continue
		}

		return nil, fmt.Errorf("unknown snapshot document %q", key)
	}

	if s.Credentials == nil {
		s.Credentials = map[string]string{}
	}
	for i := range s.Records {
		if s.Records[i].Fields == nil {
			s.Records[i].Fields = map[string]models.Value{}
		}
	}
	return s, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
