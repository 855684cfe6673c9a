// Package eventstest records published events for service tests.
package eventstest

import (
	"sync"

	"github.com/parsa000721/CopTrack/platform/go/events"
)

// Recorder is a Publisher that keeps every event in publish order and optionally forwards
// it to a real bus.
type Recorder struct {
	Next events.Publisher

	mu   sync.Mutex
	seen []events.Event
}

func (r *Recorder) Publish(ev events.Event) {
	r.mu.Lock()
	r.seen = append(r.seen, ev)
	r.mu.Unlock()

	if r.Next != nil {
		r.Next.Publish(ev)
	}
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.seen...)
}

// Names returns the names of the recorded events.
func (r *Recorder) Names() []events.Name {
	evs := r.Events()
	out := make([]events.Name, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Name)
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = nil
}

var _ events.Publisher = (*Recorder)(nil)
