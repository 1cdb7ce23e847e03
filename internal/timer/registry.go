package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Registry is the ordered collection of timers. Insertion order is display
// order. Registry is not safe for concurrent use; the lifecycle controller
// serializes access to it.
type Registry struct {
	timers []Timer
	index  map[string]int
	newID  func() string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
		newID: func() string { return uuid.NewString() },
	}
}

// Add appends a new idle timer with the given duration in seconds.
func (r *Registry) Add(initialTime int) (Timer, error) {
	if initialTime < 0 {
		return Timer{}, fmt.Errorf("%w: %d seconds", ErrInvalidDuration, initialTime)
	}

	id := r.newID()
	for r.has(id) {
		id = r.newID()
	}

	t := Timer{
		ID:          id,
		InitialTime: initialTime,
		Phase:       PhaseIdle,
	}
	r.index[id] = len(r.timers)
	r.timers = append(r.timers, t)
	return t, nil
}

// Replace swaps the registry contents for the given timers, typically a
// loaded snapshot. Timers without an id get a fresh one and duplicate ids
// after the first occurrence are dropped.
func (r *Registry) Replace(timers []Timer) {
	r.timers = make([]Timer, 0, len(timers))
	r.index = make(map[string]int, len(timers))
	for _, t := range timers {
		if t.ID == "" {
			t.ID = r.newID()
		}
		if r.has(t.ID) {
			continue
		}
		r.index[t.ID] = len(r.timers)
		r.timers = append(r.timers, t)
	}
}

// Remove deletes the timer with the given id. Absent ids are ignored.
func (r *Registry) Remove(id string) {
	i, ok := r.index[id]
	if !ok {
		return
	}
	r.timers = append(r.timers[:i], r.timers[i+1:]...)
	r.reindex()
}

// RemoveAll deletes every timer.
func (r *Registry) RemoveAll() {
	r.timers = nil
	r.index = make(map[string]int)
}

// Update changes a timer's configured duration. The elapsed time is kept but
// clamped so it never exceeds the new duration. An expired timer that has
// time left after the change goes back to Idle. The registry does not check
// the timer's phase; callers must not update running or paused timers.
func (r *Registry) Update(id string, newInitialTime int) error {
	if newInitialTime < 0 {
		return fmt.Errorf("%w: %d seconds", ErrInvalidDuration, newInitialTime)
	}
	t := r.ref(id)
	if t == nil {
		return nil
	}
	t.InitialTime = newInitialTime
	t.CurrentTime = min(t.CurrentTime, newInitialTime)
	if t.Phase == PhaseExpired && !t.Done() {
		t.Phase = PhaseIdle
	}
	return nil
}

// Tick advances a running timer by one second and reports whether it expired
// on this tick. Timers that are not running are left untouched.
func (r *Registry) Tick(id string) bool {
	t := r.ref(id)
	if t == nil || t.Phase != PhaseRunning {
		return false
	}
	if t.CurrentTime < t.InitialTime {
		t.CurrentTime++
	}
	if t.CurrentTime >= t.InitialTime {
		t.CurrentTime = t.InitialTime
		t.Phase = PhaseExpired
		return true
	}
	return false
}

// SetPhase moves a timer to the given phase.
func (r *Registry) SetPhase(id string, phase Phase) {
	if t := r.ref(id); t != nil {
		t.Phase = phase
	}
}

// SetCurrent sets a timer's elapsed seconds, clamped to [0, InitialTime].
func (r *Registry) SetCurrent(id string, seconds int) {
	if t := r.ref(id); t != nil {
		t.CurrentTime = min(max(0, seconds), t.InitialTime)
	}
}

// SetPending marks a timer as waiting on a staggered activation.
func (r *Registry) SetPending(id string, delay time.Duration) {
	if t := r.ref(id); t != nil {
		t.Pending = true
		t.PendingDelay = max(0, delay)
	}
}

// ClearPending removes any pending activation marker.
func (r *Registry) ClearPending(id string) {
	if t := r.ref(id); t != nil {
		t.Pending = false
		t.PendingDelay = 0
	}
}

// ResetAll zeroes both elapsed and configured time and returns every timer to idle.
func (r *Registry) ResetAll() {
	for i := range r.timers {
		r.timers[i] = Timer{ID: r.timers[i].ID, Phase: PhaseIdle}
	}
}

// ResetToInitialAll zeroes elapsed time and returns every timer to idle,
// keeping the configured durations.
func (r *Registry) ResetToInitialAll() {
	for i := range r.timers {
		t := &r.timers[i]
		t.CurrentTime = 0
		t.Phase = PhaseIdle
		t.Pending = false
		t.PendingDelay = 0
	}
}

// Get returns a copy of the timer with the given id.
func (r *Registry) Get(id string) (Timer, bool) {
	if t := r.ref(id); t != nil {
		return *t, true
	}
	return Timer{}, false
}

// Timers returns a copy of all timers in display order.
func (r *Registry) Timers() []Timer {
	out := make([]Timer, len(r.timers))
	copy(out, r.timers)
	return out
}

// Len returns the number of timers.
func (r *Registry) Len() int {
	return len(r.timers)
}

func (r *Registry) has(id string) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry) ref(id string) *Timer {
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	return &r.timers[i]
}

func (r *Registry) reindex() {
	r.index = make(map[string]int, len(r.timers))
	for i, t := range r.timers {
		r.index[t.ID] = i
	}
}
