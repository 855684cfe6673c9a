package persistence

import (
	"errors"
	"fmt"
	"regexp"
)

// A document key is a collection name optionally followed by path segments,
// e.g. "records" or "duty_chart/ps_x/2025-03-14". Keys become object names and row keys.
var documentKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}(/[A-Za-z0-9][A-Za-z0-9._:-]{0,63}){0,4}$`)

// ErrInvalidDocumentKey is returned when a snapshot carries a key no backend can store safely.
var ErrInvalidDocumentKey = errors.New("invalid document key")

// ValidateDocumentKey checks key against the allowed pattern.
func ValidateDocumentKey(key string) error {
	if !documentKeyPattern.MatchString(key) {
		return fmt.Errorf("%w %q", ErrInvalidDocumentKey, key)
	}
	return nil
}

// Validate checks every key and rejects empty bodies.
func (d Documents) Validate() error {
	for _, key := range d.Keys() {
		if err := ValidateDocumentKey(key); err != nil {
			return err
		}
		if len(d[key]) == 0 {
			return fmt.Errorf("document %s is empty", key)
		}
	}
	return nil
}
