package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrSecretMismatch is returned when a plaintext secret does not match its stored hash.
var ErrSecretMismatch = errors.New("secret mismatch")

// SecretHasher hashes credential secrets with bcrypt at a fixed cost.
type SecretHasher struct {
	cost int
}

// NewSecretHasher returns a hasher; a cost of 0 selects bcrypt.DefaultCost.
func NewSecretHasher(cost int) (*SecretHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d,%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &SecretHasher{cost: cost}, nil
}

func (h *SecretHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(out), nil
}

// Compare checks secret against hash, returning ErrSecretMismatch on any mismatch.
func (h *SecretHasher) Compare(hash, secret string) error {
	if hash == "" {
		return ErrSecretMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrSecretMismatch
		}
		return fmt.Errorf("compare secret: %w", err)
	}
	return nil
}
