// Package contracts embeds the HTTP API contract served and enforced by apps/api.
package contracts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// FileName is the contract's public name under /docs.
const FileName = "coptrack.yaml"

//go:embed coptrack.yaml
var raw []byte

// Raw returns the contract document as written.
func Raw() []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

// Load parses and validates the contract. Every call returns a fresh document, so callers may
// mutate it (for example to inject security schemes) without affecting each other.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("load contract: %w", err)
	}
	if err := spec.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate contract: %w", err)
	}
	return spec, nil
}
