package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/parsa000721/CopTrack/platform/go/datastore"
	"github.com/parsa000721/CopTrack/platform/go/models"
	"github.com/parsa000721/CopTrack/platform/go/schema"
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

var (
	// ErrNotFound is returned when a record does not exist in the addressed register.
	ErrNotFound = errors.New("record not found")
	// ErrNoLookup is returned when options are requested for a field that has no lookup.
	ErrNoLookup = errors.New("field has no lookup")
)

const (
	minYear = 1900
	maxYear = 2100
)

// AddInput is a new record. Year defaults to the current year.
type AddInput struct {
	Year   int
	Fields map[string]any
}

// Service is the tenant-scoped record store.
type Service interface {
	// List returns the caller's records of one year; year 0 means the current year.
	List(ctx context.Context, user models.User, registerID string, year int, filters map[string]string) ([]models.Record, error)
	ListAll(ctx context.Context, user models.User, registerID string) ([]models.Record, error)
	LookupOptions(ctx context.Context, user models.User, registerID, fieldID string) ([]string, error)
	Add(ctx context.Context, user models.User, registerID string, in AddInput) (models.Record, error)
	// Update merges fields over the stored record; a nil or blank value clears the field.
	Update(ctx context.Context, user models.User, registerID, recordID string, fields map[string]any) (models.Record, error)
	// Delete is idempotent: an unknown id is not an error.
	Delete(ctx context.Context, user models.User, registerID, recordID string) error
	// PendingByCategory counts pending crimes of one month; a zero year or month means the current one.
	PendingByCategory(ctx context.Context, user models.User, tenantID string, year int, month time.Month) ([]CategoryCount, error)
}

type service struct {
	db        *datastore.DB
	catalog   *schema.Catalog
	validator *schema.Validator
}

func New(db *datastore.DB, catalog *schema.Catalog, validator *schema.Validator) Service {
	if db == nil {
		panic("datastore is required")
	}
	if catalog == nil {
		panic("schema catalog is required")
	}
	if validator == nil {
		panic("schema validator is required")
	}
	return &service{db: db, catalog: catalog, validator: validator}
}

func (s *service) List(_ context.Context, user models.User, registerID string, year int, filters map[string]string) ([]models.Record, error) {
	if _, err := s.catalog.Register(registerID); err != nil {
		return nil, err
	}
	if year == 0 {
		year = s.db.Now().Year()
	}

	out := make([]models.Record, 0)
	tenantID, ok := tenant.ReadScope(user)
	if !ok {
		return out, nil
	}

	for _, r := range s.db.View().Records {
		if r.TenantID != tenantID || r.RegisterID != registerID || r.Year != year {
			continue
		}
		if matches(r, filters) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *service) ListAll(_ context.Context, user models.User, registerID string) ([]models.Record, error) {
	if _, err := s.catalog.Register(registerID); err != nil {
		return nil, err
	}

	out := make([]models.Record, 0)
	tenantID, ok := tenant.ReadScope(user)
	if !ok {
		return out, nil
	}

	for _, r := range s.db.View().Records {
		if r.TenantID == tenantID && r.RegisterID == registerID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *service) LookupOptions(ctx context.Context, user models.User, registerID, fieldID string) ([]string, error) {
	reg, err := s.catalog.Register(registerID)
	if err != nil {
		return nil, err
	}
	field, ok := reg.Field(fieldID)
	if !ok || field.Lookup == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoLookup, registerID, fieldID)
	}

	source, err := s.ListAll(ctx, user, field.Lookup.RegisterID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, r := range source {
		v, ok := r.Fields[field.Lookup.DisplayField]
		if !ok || v.String() == "" {
			continue
		}
		if _, dup := seen[v.String()]; dup {
			continue
		}
		seen[v.String()] = struct{}{}
		out = append(out, v.String())
	}
	sort.Strings(out)
	return out, nil
}

func (s *service) Add(ctx context.Context, user models.User, registerID string, in AddInput) (models.Record, error) {
	reg, err := s.catalog.Register(registerID)
	if err != nil {
		return models.Record{}, err
	}
	if _, ok := tenant.ReadScope(user); !ok {
		return models.Record{}, tenant.ErrForbidden
	}

	year := in.Year
	if year == 0 {
		year = s.db.Now().Year()
	}
	if year < minYear || year > maxYear {
		return models.Record{}, &ValidationError{Fields: FieldErrors{"year": {fmt.Sprintf("must be between %d and %d", minYear, maxYear)}}}
	}

	input := schema.Normalize(in.Fields)
	for _, key := range models.MetaKeys {
		delete(input, key)
	}

	var created models.Record
	err = s.db.Update(ctx, func(state *datastore.State) error {
		if err := tenant.AuthorizeWrite(state, user, user.StationID); err != nil {
			return err
		}

		values, err := s.validate(state, reg, user.StationID, input)
		if err != nil {
			return err
		}

		now := s.db.Now()
		created = models.Record{
			ID:         datastore.NewID(),
			TenantID:   user.StationID,
			RegisterID: reg.ID,
			Year:       year,
			Fields:     values,
			CreatedBy:  user.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		state.Records = append(state.Records, created.Clone())
		state.LogActivity(user, "Added new record to "+reg.Name, now)
		return nil
	})
	if err != nil {
		return models.Record{}, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, user models.User, registerID, recordID string, fields map[string]any) (models.Record, error) {
	reg, err := s.catalog.Register(registerID)
	if err != nil {
		return models.Record{}, err
	}
	if _, ok := tenant.ReadScope(user); !ok {
		return models.Record{}, tenant.ErrForbidden
	}

	var updated models.Record
	err = s.db.Update(ctx, func(state *datastore.State) error {
		existing, idx, ok := state.Record(recordID)
		if !ok || existing.RegisterID != reg.ID {
			return fmt.Errorf("%w: %s", ErrNotFound, recordID)
		}
		if err := tenant.AuthorizeWrite(state, user, existing.TenantID); err != nil {
			return err
		}

		merged := schema.FromValues(existing.Fields)
		fieldErrors := FieldErrors{}
		for key, raw := range fields {
			if isMetaKey(key) {
				if !sameMeta(existing, key, raw) {
					fieldErrors.add(key, "is immutable")
				}
				continue
			}
			if str, isString := raw.(string); raw == nil || (isString && strings.TrimSpace(str) == "") {
				delete(merged, key)
				continue
			}
			merged[key] = raw
		}
		if len(fieldErrors) > 0 {
			return &ValidationError{Fields: fieldErrors}
		}

		values, err := s.validate(state, reg, existing.TenantID, schema.Normalize(merged))
		if err != nil {
			return err
		}

		now := s.db.Now()
		existing = existing.Clone()
		existing.Fields = values
		existing.UpdatedAt = now
		state.Records[idx] = existing
		state.LogActivity(user, "Updated record in "+reg.Name, now)
		updated = existing.Clone()
		return nil
	})
	if err != nil {
		return models.Record{}, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, user models.User, registerID, recordID string) error {
	reg, err := s.catalog.Register(registerID)
	if err != nil {
		return err
	}
	if _, ok := tenant.ReadScope(user); !ok {
		return tenant.ErrForbidden
	}

	err = s.db.Update(ctx, func(state *datastore.State) error {
		existing, idx, ok := state.Record(recordID)
		if !ok || existing.RegisterID != reg.ID {
			return datastore.ErrNoChange
		}
		if err := tenant.AuthorizeWrite(state, user, existing.TenantID); err != nil {
			return err
		}

		state.Records = append(state.Records[:idx], state.Records[idx+1:]...)
		state.LogActivity(user, "Deleted record from "+reg.Name, s.db.Now())
		return nil
	})
	if errors.Is(err, datastore.ErrNoChange) {
		return nil
	}
	return err
}

// validate checks a normalized payload against the register and the lookup sources of tenantID,
// returning the typed field values.
func (s *service) validate(state *datastore.State, reg schema.RegisterSchema, tenantID string, input map[string]any) (map[string]models.Value, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode record fields: %w", err)
	}

	fieldErrors := FieldErrors{}
	if err := s.validator.Validate(reg, payload); err != nil {
		var verr *schema.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		for _, v := range verr.Violations {
			fieldErrors.add(v.Field, v.Message)
		}
	}

	for _, f := range reg.Fields {
		if f.Lookup == nil {
			continue
		}
		raw, ok := input[f.ID].(string)
		if !ok {
			continue
		}
		if _, known := lookupValues(state, tenantID, *f.Lookup)[raw]; !known {
			fieldErrors.add(f.ID, fmt.Sprintf("%q is not a value of %s.%s", raw, f.Lookup.RegisterID, f.Lookup.DisplayField))
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}
	return schema.Coerce(reg, input)
}

func lookupValues(state *datastore.State, tenantID string, lookup schema.Lookup) map[string]struct{} {
	out := map[string]struct{}{}
	for _, r := range state.Records {
		if r.TenantID != tenantID || r.RegisterID != lookup.RegisterID {
			continue
		}
		if v, ok := r.Fields[lookup.DisplayField]; ok {
			out[v.String()] = struct{}{}
		}
	}
	return out
}

func matches(r models.Record, filters map[string]string) bool {
	for key, want := range filters {
		if r.Fields[key].String() != want {
			return false
		}
	}
	return true
}

func isMetaKey(key string) bool {
	for _, k := range models.MetaKeys {
		if k == key {
			return true
		}
	}
	return false
}

// sameMeta reports whether raw leaves the record attribute key unchanged. Timestamps and the
// creator are server-managed and always ignored.
func sameMeta(r models.Record, key string, raw any) bool {
	switch key {
	case "id":
		return raw == r.ID
	case "tenantId":
		return raw == r.TenantID
	case "registerId":
		return raw == r.RegisterID
	case "year":
		switch n := raw.(type) {
		case float64:
			return int(n) == r.Year && float64(int(n)) == n
		case int:
			return n == r.Year
		}
		return false
	default:
		return true
	}
}

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}
