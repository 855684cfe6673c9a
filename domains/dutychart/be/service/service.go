package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/tenant"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Service manages the daily duty roster of the caller's station.
type Service interface {
	// Get returns the chart for date, creating it from DefaultChart on first access.
	Get(ctx context.Context, user models.User, date string) (models.DutyChart, error)
	Save(ctx context.Context, user models.User, date string, chart models.DutyChart) (models.DutyChart, error)
}

type service struct {
	db *datastore.DB
}

func New(db *datastore.DB) Service {
	if db == nil {
		panic("datastore is required")
	}
	return &service{db: db}
}

func (s *service) Get(ctx context.Context, user models.User, date string) (models.DutyChart, error) {
	if err := validateDate(date); err != nil {
		return models.DutyChart{}, err
	}
	if err := tenant.Authorize(user, user.StationID); err != nil {
		return models.DutyChart{}, err
	}

	key := datastore.DutyChartKey{StationID: user.StationID, Date: date}
	state := s.db.View()
	if chart, ok := state.DutyCharts[key]; ok {
		return chart.Clone(), nil
	}

	chart := DefaultChart(user.StationID, date)
	// an inactive station may still read, but nothing is written on its behalf
	if tenant.RequireActive(state, user) != nil {
		return chart, nil
	}

	var stored models.DutyChart
	err := s.db.Update(ctx, func(state *datastore.State) error {
		if existing, ok := state.DutyCharts[key]; ok {
			stored = existing.Clone()
			return datastore.ErrNoChange
		}
		state.DutyCharts[key] = chart.Clone()
		stored = chart
		return nil
	})
	if err != nil && !errors.Is(err, datastore.ErrNoChange) {
		return models.DutyChart{}, err
	}
	return stored, nil
}

func (s *service) Save(ctx context.Context, user models.User, date string, chart models.DutyChart) (models.DutyChart, error) {
	if err := validateDate(date); err != nil {
		return models.DutyChart{}, err
	}

	fieldErrors := FieldErrors{}
	for i, p := range chart.Personnel {
		switch p.Presence {
		case models.PresencePresent, models.PresenceAbsent, models.PresenceOnLeave, models.PresenceOutstation:
		default:
			fieldErrors.add(fmt.Sprintf("personnel[%d].presence", i), fmt.Sprintf("unknown presence code %q", p.Presence))
		}
	}
	if len(fieldErrors) > 0 {
		return models.DutyChart{}, &ValidationError{Fields: fieldErrors}
	}

	next := chart.Clone()
	next.StationID = user.StationID
	next.Date = date
	if next.Personnel == nil {
		next.Personnel = []models.DutyPersonnel{}
	}
	if next.Assignments == nil {
		next.Assignments = []models.DutyAssignment{}
	}
	next.Summary = models.Summarize(next.Personnel)

	err := s.db.Update(ctx, func(state *datastore.State) error {
		if err := tenant.AuthorizeWrite(state, user, user.StationID); err != nil {
			return err
		}
		state.DutyCharts[datastore.DutyChartKey{StationID: user.StationID, Date: date}] = next.Clone()
		return nil
	})
	if err != nil {
		return models.DutyChart{}, err
	}
	return next, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return &ValidationError{Fields: FieldErrors{"date": {"must be formatted YYYY-MM-DD"}}}
	}
	return nil
}

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}
