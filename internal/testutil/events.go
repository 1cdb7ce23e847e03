package testutil

import (
	"sync"

	"github.com/npratt/racetimer/internal/events"
)

// EventRecorder is an events.Emitter that keeps every event in order.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Emit records the event.
func (r *EventRecorder) Emit(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events with the given type.
func (r *EventRecorder) OfType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of the given type were recorded.
func (r *EventRecorder) Count(t events.EventType) int {
	return len(r.OfType(t))
}

// Reset discards recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
