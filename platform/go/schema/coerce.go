package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/parsa000721/CopTrack/platform/go/models"
)

// Normalize drops nil values and blank strings so optional fields left empty by a form count as absent.
func Normalize(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for k, v := range input {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(tv) == "" {
				continue
			}
			out[k] = strings.TrimSpace(tv)
		default:
			out[k] = v
		}
	}
	return out
}

// Coerce converts a payload that already passed Validate into typed values.
func Coerce(reg RegisterSchema, input map[string]any) (map[string]models.Value, error) {
	out := make(map[string]models.Value, len(input))
	for id, raw := range input {
		f, ok := reg.Field(id)
		if !ok {
			return nil, fmt.Errorf("register %s has no field %q", reg.ID, id)
		}
		v, err := coerceValue(f, raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", id, err)
		}
		out[id] = v
	}
	return out, nil
}

// FromValues is the inverse of Coerce, used to revalidate a stored record after a partial update.
func FromValues(values map[string]models.Value) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v.Interface()
	}
	return out
}

func coerceValue(f FieldDefinition, raw any) (models.Value, error) {
	switch f.Type {
	case FieldNumber:
		switch n := raw.(type) {
		case float64:
			return models.Number(n), nil
		case int:
			return models.Number(float64(n)), nil
		}
	case FieldCheckbox:
		if b, ok := raw.(bool); ok {
			return models.Bool(b), nil
		}
	case FieldDate:
		if s, ok := raw.(string); ok {
			t, err := time.Parse(models.DateLayout, s)
			if err != nil {
				return models.Value{}, err
			}
			return models.Date(t), nil
		}
	default:
		if s, ok := raw.(string); ok {
			return models.Text(s), nil
		}
	}
	return models.Value{}, fmt.Errorf("unexpected %T for %s field", raw, f.Type)
}
