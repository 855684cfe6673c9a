package service

import (
	"context"
	"strings"
	"time"

	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/schema"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

// CategoryCount is one row of the pending-cases report.
type CategoryCount struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

type crimeCategory struct {
	id       string
	label    string
	sections []string
}

const otherIPC = "other_ipc"

// crimeCategories are matched by substring against the section field. A record may fall into
// several categories; otherIPC takes the ones that match none.
var crimeCategories = []crimeCategory{
	{id: "murder", label: "Murder", sections: []string{"302", "303"}},
	{id: "attempt_to_murder", label: "Attempt to Murder", sections: []string{"307"}},
	{id: "dacoity", label: "Dacoity", sections: []string{"395", "396", "397", "398"}},
	{id: "robbery", label: "Robbery", sections: []string{"392", "393", "394", "397", "398"}},
	{id: "kidnapping", label: "Kidnapping/Abduction", sections: []string{"363", "364", "365", "366", "367", "368", "369"}},
	{id: "rape", label: "Rape", sections: []string{"376"}},
	{id: "riot", label: "Riot", sections: []string{"147", "148", "149", "150", "151", "153A"}},
	{id: "burglary", label: "Burglary", sections: []string{"453", "454", "455", "456", "457", "458", "459", "460", "380"}},
	{id: "theft", label: "Theft", sections: []string{"379", "380", "381", "382"}},
}

func (c crimeCategory) matches(section string) bool {
	for _, s := range c.sections {
		if strings.Contains(section, s) {
			return true
		}
	}
	return false
}

func (s *service) PendingByCategory(_ context.Context, user models.User, tenantID string, year int, month time.Month) ([]CategoryCount, error) {
	now := s.db.Now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = now.Month()
	}
	if month < time.January || month > time.December {
		return nil, &ValidationError{Fields: FieldErrors{"month": {"must be between 1 and 12"}}}
	}

	out := make([]CategoryCount, 0)
	if _, ok := tenant.ReadScope(user); !ok {
		return out, nil
	}
	if err := tenant.Authorize(user, tenantID); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(crimeCategories)+1)
	for _, r := range s.db.View().Records {
		if r.TenantID != tenantID || r.RegisterID != schema.CrimeRegister {
			continue
		}
		if r.Fields[schema.FieldDisposalType].String() != schema.DisposalPending {
			continue
		}
		at := registeredAt(r)
		if at.Year() != year || at.Month() != month {
			continue
		}

		section := r.Fields[schema.FieldSection].String()
		if section == "" {
			continue
		}
		matched := false
		for _, c := range crimeCategories {
			if c.matches(section) {
				counts[c.id]++
				matched = true
			}
		}
		if !matched {
			counts[otherIPC]++
		}
	}

	for _, c := range crimeCategories {
		if n := counts[c.id]; n > 0 {
			out = append(out, CategoryCount{Category: c.id, Label: c.label, Count: n})
		}
	}
	if n := counts[otherIPC]; n > 0 {
		out = append(out, CategoryCount{Category: otherIPC, Label: "Other IPC", Count: n})
	}
	return out, nil
}

func registeredAt(r models.Record) time.Time {
	if t, ok := r.Fields[schema.FieldDateRegistered].Time(); ok {
		return t
	}
	return r.CreatedAt
}
