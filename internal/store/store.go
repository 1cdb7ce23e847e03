// Package store persists the timer registry snapshot between runs.
package store

import (
	"errors"
	"time"

	"github.com/npratt/racetimer/internal/timer"
)

// ErrUnavailable wraps storage read and write failures. It is never fatal:
// the in-memory registry stays authoritative for the running session.
var ErrUnavailable = errors.New("persistence unavailable")

// CurrentVersion is the snapshot format version.
// Increment this when making incompatible changes to Snapshot.
const CurrentVersion = 1

// Gateway is durable key/value storage of the registry snapshot.
type Gateway interface {
	// Load returns the stored timers, or an empty slice when nothing is stored.
	Load() ([]timer.Timer, error)
	// Save overwrites the stored snapshot.
	Save(timers []timer.Timer) error
	// Clear removes the stored snapshot.
	Clear() error
}

// Snapshot is the on-disk envelope.
type Snapshot struct {
	Version int       `json:"version" yaml:"version" cbor:"version"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at" cbor:"saved_at"`
	Timers  []Record  `json:"timers" yaml:"timers" cbor:"timers"`
}

// Record is one persisted timer. Phase is stored as two flags; it is
// informational only and timers reload idle.
type Record struct {
	ID          string `json:"id" yaml:"id" cbor:"id"`
	InitialTime int    `json:"initial_time" yaml:"initial_time" cbor:"initial_time"`
	CurrentTime int    `json:"current_time" yaml:"current_time" cbor:"current_time"`
	IsRunning   bool   `json:"is_running" yaml:"is_running" cbor:"is_running"`
	IsPaused    bool   `json:"is_paused" yaml:"is_paused" cbor:"is_paused"`
}

// NewSnapshot converts timers into a snapshot envelope.
func NewSnapshot(timers []timer.Timer, now time.Time) Snapshot {
	records := make([]Record, len(timers))
	for i, t := range timers {
		records[i] = Record{
			ID:          t.ID,
			InitialTime: t.InitialTime,
			CurrentTime: t.CurrentTime,
			IsRunning:   t.Phase == timer.PhaseRunning || t.Waiting(),
			IsPaused:    t.Phase == timer.PhasePaused,
		}
	}
	return Snapshot{
		Version: CurrentVersion,
		SavedAt: now,
		Timers:  records,
	}
}

// Restore converts a snapshot back into idle timers. Negative or
// inconsistent values are clamped so the registry invariants hold.
func (s Snapshot) Restore() []timer.Timer {
	out := make([]timer.Timer, 0, len(s.Timers))
	for _, r := range s.Timers {
		initial := max(0, r.InitialTime)
		out = append(out, timer.Timer{
			ID:          r.ID,
			InitialTime: initial,
			CurrentTime: min(max(0, r.CurrentTime), initial),
			Phase:       timer.PhaseIdle,
		})
	}
	return out
}
