package controller

import (
	"strings"

	"github.com/npratt/racetimer/internal/timer"
)

// Snapshot is a read-only view of the registry plus the flags the
// presentation layer uses to enable controls.
type Snapshot struct {
	Timers []timer.Timer `json:"timers"`

	AnyRunning bool `json:"any_running"` // a timer is running or waiting on its staggered start
	AnyPaused  bool `json:"any_paused"`
	AllExpired bool `json:"all_expired"` // every timer has consumed its duration; true when empty
	Empty      bool `json:"empty"`
}

func newSnapshot(timers []timer.Timer) Snapshot {
	s := Snapshot{
		Timers:     timers,
		Empty:      len(timers) == 0,
		AllExpired: true,
	}
	for _, t := range timers {
		if t.Phase == timer.PhaseRunning || t.Waiting() {
			s.AnyRunning = true
		}
		if t.Phase == timer.PhasePaused {
			s.AnyPaused = true
		}
		if !t.Done() {
			s.AllExpired = false
		}
	}
	return s
}

// Find returns the timer whose id starts with prefix. It fails when no timer
// or more than one timer matches.
func (s Snapshot) Find(prefix string) (timer.Timer, bool) {
	var found timer.Timer
	matches := 0
	for _, t := range s.Timers {
		if t.ID == prefix {
			return t, true
		}
		if prefix != "" && strings.HasPrefix(t.ID, prefix) {
			found = t
			matches++
		}
	}
	return found, matches == 1
}

// Counts tallies timers by phase. Waiting timers are counted separately from idle ones.
func (s Snapshot) Counts() (running, waiting, paused, expired int) {
	for _, t := range s.Timers {
		switch {
		case t.Waiting():
			waiting++
		case t.Phase == timer.PhaseRunning:
			running++
		case t.Phase == timer.PhasePaused:
			paused++
		case t.Phase == timer.PhaseExpired:
			expired++
		}
	}
	return running, waiting, paused, expired
}

// Race states reported by Snapshot.State.
const (
	StateEmpty    = "empty"
	StateIdle     = "idle"
	StateRunning  = "running"
	StatePaused   = "paused"
	StateFinished = "finished"
)

// State summarizes the race as a single word for status displays.
func (s Snapshot) State() string {
	switch {
	case s.Empty:
		return StateEmpty
	case s.AnyRunning:
		return StateRunning
	case s.AnyPaused:
		return StatePaused
	case s.AllExpired:
		return StateFinished
	default:
		return StateIdle
	}
}
