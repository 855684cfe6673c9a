// Package schema holds the static register catalog and validates record input against it.
package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownRegister is returned when a register id is not part of the catalog.
var ErrUnknownRegister = errors.New("unknown register")

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTextArea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
)

// Lookup makes a SELECT field draw its options from another register's records.
type Lookup struct {
	RegisterID   string `json:"registerId"`
	DisplayField string `json:"displayField"`
}

type FieldDefinition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	LabelHi  string    `json:"labelHi,omitempty"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
	Lookup   *Lookup   `json:"lookup,omitempty"`
}

type RegisterSchema struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	NameHi string            `json:"nameHi,omitempty"`
	Fields []FieldDefinition `json:"fields"`
}

// Field returns the definition with the given id.
func (r RegisterSchema) Field(id string) (FieldDefinition, bool) {
	for _, f := range r.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Catalog is an immutable, ordered set of registers.
type Catalog struct {
	order []string
	byID  map[string]RegisterSchema
}

// NewCatalog builds a catalog, rejecting duplicate ids and lookups that point at unknown registers or fields.
func NewCatalog(registers ...RegisterSchema) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]RegisterSchema, len(registers))}
	for _, reg := range registers {
		if reg.ID == "" {
			return nil, errors.New("register id is required")
		}
		if _, dup := c.byID[reg.ID]; dup {
			return nil, fmt.Errorf("duplicate register %q", reg.ID)
		}
		c.byID[reg.ID] = reg
		c.order = append(c.order, reg.ID)
	}

	for _, reg := range registers {
		for _, f := range reg.Fields {
			if f.Lookup == nil {
				continue
			}
			src, ok := c.byID[f.Lookup.RegisterID]
			if !ok {
				return nil, fmt.Errorf("register %s field %s: lookup source %q: %w", reg.ID, f.ID, f.Lookup.RegisterID, ErrUnknownRegister)
			}
			if _, ok := src.Field(f.Lookup.DisplayField); !ok {
				return nil, fmt.Errorf("register %s field %s: lookup display field %q not in %s", reg.ID, f.ID, f.Lookup.DisplayField, src.ID)
			}
		}
	}

	return c, nil
}

// Registers returns the registers in catalog order.
func (c *Catalog) Registers() []RegisterSchema {
	out := make([]RegisterSchema, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Register(id string) (RegisterSchema, error) {
	reg, ok := c.byID[id]
	if !ok {
		return RegisterSchema{}, fmt.Errorf("%w: %s", ErrUnknownRegister, id)
	}
	return reg, nil
}

// LookupFields lists the fields of a register whose options come from another register.
func (c *Catalog) LookupFields(id string) ([]FieldDefinition, error) {
	reg, err := c.Register(id)
	if err != nil {
		return nil, err
	}
	var out []FieldDefinition
	for _, f := range reg.Fields {
		if f.Lookup != nil {
			out = append(out, f)
		}
	}
	return out, nil
}

var defaultCatalog = mustCatalog(defaultRegisters()...)

// Default returns the process-wide register catalog.
func Default() *Catalog { return defaultCatalog }

func mustCatalog(registers ...RegisterSchema) *Catalog {
	c, err := NewCatalog(registers...)
	if err != nil {
		panic(err)
	}
	return c
}
