package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Violation is a single problem found in a record payload.
type Violation struct {
	Field   string
	Message string
}

// ValidationError lists every violation found while validating one payload.
type ValidationError struct {
	RegisterID string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("register %s: %s", e.RegisterID, strings.Join(parts, "; "))
}

// Validator validates record payloads against JSON Schemas derived from register definitions.
// Compiled schemas are cached per register.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{cache: make(map[string]*jsonschema.Schema)}
}

// Validate checks a JSON object payload against the register.
func (v *Validator) Validate(reg RegisterSchema, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required for validation")
	}

	compiled, err := v.getOrCompile(reg)
	if err != nil {
		return err
	}

	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	if err := compiled.Validate(document); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{RegisterID: reg.ID, Violations: violations(verr)}
		}
		return fmt.Errorf("schema validation: %w", err)
	}

	return nil
}

func (v *Validator) getOrCompile(reg RegisterSchema) (*jsonschema.Schema, error) {
	key := cacheKey(reg)

	v.mu.RLock()
	compiled, ok := v.cache[key]
	v.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if compiled, ok = v.cache[key]; ok {
		return compiled, nil
	}

	definition, err := JSONSchema(reg)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(key, bytes.NewReader(definition)); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", key, err)
	}

	newCompiled, err := compiler.Compile(key)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", key, err)
	}

	v.cache[key] = newCompiled
	return newCompiled, nil
}

func cacheKey(reg RegisterSchema) string {
	return fmt.Sprintf("memory://registers/%s.json", reg.ID)
}

// JSONSchema renders the register as a draft 2020-12 object schema.
func JSONSchema(reg RegisterSchema) ([]byte, error) {
	properties := make(map[string]any, len(reg.Fields))
	required := make([]string, 0)

	for _, f := range reg.Fields {
		prop := map[string]any{}
		switch f.Type {
		case FieldNumber:
			prop["type"] = "number"
		case FieldCheckbox:
			prop["type"] = "boolean"
		case FieldDate:
			prop["type"] = "string"
			prop["format"] = "date"
		case FieldFile:
			prop["type"] = "string"
			prop["pattern"] = "^data:"
		case FieldSelect:
			prop["type"] = "string"
			if len(f.Options) > 0 {
				prop["enum"] = f.Options
			}
		default:
			prop["type"] = "string"
		}
		if f.Required {
			required = append(required, f.ID)
			if prop["type"] == "string" {
				prop["minLength"] = 1
			}
		}
		properties[f.ID] = prop
	}

	return json.Marshal(map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                reg.Name,
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	})
}

var quotedName = regexp.MustCompile(`'([^']+)'`)

func violations(err *jsonschema.ValidationError) []Violation {
	var out []Violation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}

		field := strings.TrimPrefix(e.InstanceLocation, "/")
		if field != "" {
			out = append(out, Violation{Field: field, Message: e.Message})
			return
		}

		// required and additionalProperties report at the object root and name the fields in the message
		names := quotedName.FindAllStringSubmatch(e.Message, -1)
		if len(names) == 0 {
			out = append(out, Violation{Field: "fields", Message: e.Message})
			return
		}
		msg := "is not allowed"
		if strings.HasSuffix(e.KeywordLocation, "/required") {
			msg = "is required"
		}
		for _, n := range names {
			out = append(out, Violation{Field: n[1], Message: msg})
		}
	}
	walk(err)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
