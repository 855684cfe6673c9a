package models

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the canonical layout for DATE field values.
const DateLayout = "2006-01-02"

// Kind discriminates the variants a record field value can hold.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
	KindBool   Kind = "bool"
)

// Value is a typed record field value. Exactly one payload field is meaningful,
// selected by Kind; dates are kept in Text using DateLayout.
type Value struct {
	Kind   Kind    `json:"kind"`
	Text   string  `json:"text,omitempty"`
	Number float64 `json:"number,omitempty"`
	Bool   bool    `json:"bool,omitempty"`
}

func Text(s string) Value { return Value{Kind: KindText, Text: s} }

func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Date(t time.Time) Value { return Value{Kind: KindDate, Text: t.Format(DateLayout)} }

// Time returns the parsed date for KindDate values.
func (v Value) Time() (time.Time, bool) {
	if v.Kind != KindDate {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, v.Text)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// String renders the value the way filters and lookups compare it.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

// Interface returns the plain JSON representation used on the HTTP surface.
func (v Value) Interface() any {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	default:
		return v.Text
	}
}

func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) GoString() string {
	return fmt.Sprintf("models.Value{%s:%s}", v.Kind, v.String())
}
