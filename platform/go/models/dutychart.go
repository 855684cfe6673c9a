package models

// Presence codes used on the duty chart.
const (
	PresencePresent    = "P"
	PresenceAbsent     = "A"
	PresenceOnLeave    = "L"
	PresenceOutstation = "D"
)

type DutyPersonnel struct {
	SNo         int    `json:"sNo"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Details     string `json:"details"`
	Presence    string `json:"presence"`
}

type DutyAssignment struct {
	Title    string   `json:"title"`
	Officers []string `json:"officers"`
	Subtext  string   `json:"subtext,omitempty"`
}

type DutySummary struct {
	Present    int `json:"present"`
	OnLeave    int `json:"onLeave"`
	Absent     int `json:"absent"`
	Outstation int `json:"outstation"`
}

// DutyChart is the daily roster of one station.
type DutyChart struct {
	StationID   string           `json:"stationId"`
	Date        string           `json:"date"`
	Personnel   []DutyPersonnel  `json:"personnel"`
	Assignments []DutyAssignment `json:"assignments"`
	Summary     DutySummary      `json:"summary"`
}

// Clone deep-copies the chart.
func (c DutyChart) Clone() DutyChart {
	out := c
	out.Personnel = append([]DutyPersonnel(nil), c.Personnel...)
	out.Assignments = make([]DutyAssignment, len(c.Assignments))
	for i, a := range c.Assignments {
		a.Officers = append([]string(nil), a.Officers...)
		out.Assignments[i] = a
	}
	return out
}

// Summarize counts personnel by presence code.
func Summarize(personnel []DutyPersonnel) DutySummary {
	var s DutySummary
	for _, p := range personnel {
		switch p.Presence {
		case PresencePresent:
			s.Present++
		case PresenceAbsent:
			s.Absent++
		case PresenceOnLeave:
			s.OnLeave++
		case PresenceOutstation:
			s.Outstation++
		}
	}
	return s
}
