package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

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

// Domain sentinel errors.
var (
	ErrNotFound          = errors.New("user not found")
	ErrStationNotFound   = fmt.Errorf("%w: station not found", ErrNotFound)
	ErrInvalidCredential = errors.New("invalid credential")
	ErrDuplicateIdentity = errors.New("duplicate identity")
)

// SecretHasher hashes and checks credential secrets.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

// User is the roster view of a principal, with its station name resolved.
type User struct {
	models.User
	StationName string `json:"stationName"`
}

// RegisterInput is a self-registration request. Role defaults to USER; ADMIN cannot self-register.
type RegisterInput struct {
	Name        string
	SSOID       string
	Email       string
	Mobile      string
	Designation string
	Role        models.Role
	StationID   string
	Password    string
}

// ProfileInput carries the fields a user may change on their own profile. Nil fields are untouched.
// NewPassword requires CurrentPassword.
type ProfileInput struct {
	Name            *string
	Email           *string
	Mobile          *string
	Designation     *string
	CurrentPassword string
	NewPassword     string
}

// Service defines the business operations for the users domain.
type Service interface {
	Login(ctx context.Context, identifier, secret string) (User, error)
	Register(ctx context.Context, input RegisterInput) (User, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileInput) (User, error)
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
}

type service struct {
	db     *datastore.DB
	hasher SecretHasher
}

// New constructs a users Service instance backed by the datastore.
func New(db *datastore.DB, hasher SecretHasher) Service {
	if db == nil {
		panic("datastore is required")
	}
	if hasher == nil {
		panic("secret hasher is required")
	}
	return &service{db: db, hasher: hasher}
}

func (s *service) Login(_ context.Context, identifier, secret string) (User, error) {
	state := s.db.View()

	user, ok := state.UserByIdentity(identifier)
	if !ok {
		return User{}, ErrInvalidCredential
	}
	if err := s.hasher.Compare(state.Credentials[user.SSOID], secret); err != nil {
		return User{}, ErrInvalidCredential
	}
	if err := tenant.RequireActive(state, user); err != nil {
		return User{}, err
	}

	return view(state, user), nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (User, error) {
	input = trimRegister(input)
	if input.Role == "" {
		input.Role = models.RoleUser
	}

	fieldErrors := FieldErrors{}
	required := map[string]string{
		"name":      input.Name,
		"ssoId":     input.SSOID,
		"email":     input.Email,
		"stationId": input.StationID,
		"password":  input.Password,
	}
	for field, value := range required {
		if value == "" {
			fieldErrors.add(field, field+" is required")
		}
	}
	if input.Email != "" && !strings.Contains(input.Email, "@") {
		fieldErrors.add("email", "email must contain '@'")
	}
	if !input.Role.Valid() || input.Role == models.RoleAdmin {
		fieldErrors.add("role", "role must be station_officer or user")
	}
	if len(fieldErrors) > 0 {
		return User{}, &ValidationError{Fields: fieldErrors}
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, err
	}

	var created models.User
	err = s.db.Update(ctx, func(state *datastore.State) error {
		if _, _, ok := state.Station(input.StationID); !ok {
			return ErrStationNotFound
		}
		if identityTaken(state, "", input.SSOID, input.Email) {
			return ErrDuplicateIdentity
		}

		created = models.User{
			ID:          "user_" + datastore.NewID(),
			Name:        input.Name,
			Role:        input.Role,
			StationID:   input.StationID,
			SSOID:       input.SSOID,
			Email:       input.Email,
			Mobile:      input.Mobile,
			Designation: input.Designation,
		}
		state.Users = append(state.Users, created)
		state.Credentials[created.SSOID] = hashed
		state.LogActivity(created, "Registered as "+created.Name, s.db.Now())
		return nil
	})
	if err != nil {
		return User{}, err
	}

	return view(s.db.View(), created), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (User, error) {
	fieldErrors := FieldErrors{}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		fieldErrors.add("name", "name cannot be empty")
	}
	if input.Email != nil && !strings.Contains(*input.Email, "@") {
		fieldErrors.add("email", "email must contain '@'")
	}
	if len(fieldErrors) > 0 {
		return User{}, &ValidationError{Fields: fieldErrors}
	}

	var newHash string
	if input.NewPassword != "" {
		if input.CurrentPassword == "" {
			return User{}, fmt.Errorf("%w: current password is required", ErrInvalidCredential)
		}
		hashed, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return User{}, err
		}
		newHash = hashed
	}

	var updated models.User
	err := s.db.Update(ctx, func(state *datastore.State) error {
		user, idx, ok := state.User(userID)
		if !ok {
			return ErrNotFound
		}
		// compared under the commit lock
		if newHash != "" {
			if err := s.hasher.Compare(state.Credentials[user.SSOID], input.CurrentPassword); err != nil {
				return fmt.Errorf("%w: incorrect current password", ErrInvalidCredential)
			}
		}

		next := user
		if input.Name != nil {
			next.Name = strings.TrimSpace(*input.Name)
		}
		if input.Email != nil {
			next.Email = strings.TrimSpace(*input.Email)
			if identityTaken(state, user.ID, "", next.Email) {
				return ErrDuplicateIdentity
			}
		}
		if input.Mobile != nil {
			next.Mobile = strings.TrimSpace(*input.Mobile)
		}
		if input.Designation != nil {
			next.Designation = strings.TrimSpace(*input.Designation)
		}

		updated = next
		if next == user && newHash == "" {
			return datastore.ErrNoChange
		}

		state.Users[idx] = next
		if newHash != "" {
			state.Credentials[next.SSOID] = newHash
		}
		return nil
	})
	if err != nil && !errors.Is(err, datastore.ErrNoChange) {
		return User{}, err
	}

	return view(s.db.View(), updated), nil
}

func (s *service) Get(_ context.Context, id string) (User, error) {
	state := s.db.View()
	user, _, ok := state.User(id)
	if !ok {
		return User{}, ErrNotFound
	}
	return view(state, user), nil
}

func (s *service) List(context.Context) ([]User, error) {
	state := s.db.View()
	out := make([]User, 0, len(state.Users))
	for _, u := range state.Users {
		out = append(out, view(state, u))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func view(state *datastore.State, user models.User) User {
	name := "N/A (Admin)"
	if user.StationID != "" {
		name = state.StationName(user.StationID)
		if name == "" {
			name = "N/A"
		}
	}
	return User{User: user, StationName: name}
}

// identityTaken reports whether another user than exceptID already uses ssoID or email.
func identityTaken(state *datastore.State, exceptID, ssoID, email string) bool {
	for _, u := range state.Users {
		if u.ID == exceptID {
			continue
		}
		if ssoID != "" && u.SSOID == ssoID {
			return true
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	if ssoID != "" {
		if _, ok := state.Credentials[ssoID]; ok {
			return true
		}
	}
	return false
}

func trimRegister(in RegisterInput) RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.SSOID = strings.TrimSpace(in.SSOID)
	in.Email = strings.TrimSpace(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Designation = strings.TrimSpace(in.Designation)
	in.StationID = strings.TrimSpace(in.StationID)
	return in
}

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}
