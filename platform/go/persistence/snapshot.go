package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
)

// ErrNoSnapshot is returned by Load when the backend holds no snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Documents is a full-state snapshot: one JSON document per logical collection.
type Documents map[string]json.RawMessage

// Keys returns the document keys in sorted order.
func (d Documents) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone deep-copies the documents.
func (d Documents) Clone() Documents {
	out := make(Documents, len(d))
	for k, v := range d {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// SnapshotStore persists full-state snapshots. Save replaces the previous snapshot as a whole;
// a failed Save must leave the previous snapshot readable.
type SnapshotStore interface {
	Load(ctx context.Context) (Documents, error)
	Save(ctx context.Context, docs Documents) error
}
