package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValueStringForms(t *testing.T) {
	require.Equal(t, "12.5", Number(12.5).String())
	require.Equal(t, "3", Number(3).String())
	require.Equal(t, "true", Bool(true).String())
	require.Equal(t, "IPC 302", Text("IPC 302").String())

	d := Date(time.Date(2025, time.March, 4, 15, 0, 0, 0, time.UTC))
	require.Equal(t, "2025-03-04", d.String())

	parsed, ok := d.Time()
	require.True(t, ok)
	require.Equal(t, time.March, parsed.Month())

	_, ok = Text("2025-03-04").Time()
	require.False(t, ok)
}

func TestValueKeepsKindAcrossJSON(t *testing.T) {
	in := map[string]Value{
		"dateRegistered": Date(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)),
		"caseNumber":     Text("2025-01-02"),
		"arrestedMale":   Number(0),
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out map[string]Value
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, in, out)
	require.False(t, out["dateRegistered"].Equal(out["caseNumber"]))
}

func TestRecordPlainAndClone(t *testing.T) {
	rec := Record{ID: "r1", TenantID: "ps_x", RegisterID: "crime_register", Year: 2025, Fields: map[string]Value{"section": Text("302")}}

	plain := rec.Plain()
	require.Equal(t, "302", plain["section"])
	require.Equal(t, "ps_x", plain["tenantId"])

	clone := rec.Clone()
	clone.Fields["section"] = Text("307")
	require.Equal(t, "302", rec.Fields["section"].Text)
}

func TestSummarize(t *testing.T) {
	got := Summarize([]DutyPersonnel{
		{Presence: PresencePresent},
		{Presence: PresencePresent},
		{Presence: PresenceAbsent},
		{Presence: PresenceOutstation},
		{Presence: PresenceOnLeave},
		{Presence: "?"},
	})
	require.Equal(t, DutySummary{Present: 2, Absent: 1, OnLeave: 1, Outstation: 1}, got)
}
