// Package timer defines the countdown Timer entity and the ordered Registry
// that owns every timer of a race.
package timer

import (
	"errors"
	"time"
)

// ErrInvalidDuration is returned when a duration is negative or cannot be parsed.
var ErrInvalidDuration = errors.New("invalid duration")

// Phase describes where a timer is in its lifecycle.
type Phase string

// Timer phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseExpired Phase = "expired"
)

// Timer is one countdown instance.
type Timer struct {
	ID          string `json:"id"`
	InitialTime int    `json:"initial_time"` // configured duration in seconds
	CurrentTime int    `json:"current_time"` // elapsed seconds since the countdown began
	Phase       Phase  `json:"phase"`

	// Pending is set while a staggered activation is outstanding (Idle) or was
	// frozen by a pause before the countdown began (Paused).
	Pending bool `json:"pending,omitempty"`
	// PendingDelay is the delay the activation was armed with, or the residual
	// pre-start delay captured at pause time.
	PendingDelay time.Duration `json:"pending_delay,omitempty"`
}

// Remaining returns the seconds left on the countdown.
func (t Timer) Remaining() int {
	return max(0, t.InitialTime-t.CurrentTime)
}

// Done reports whether the countdown has consumed its whole duration.
// Zero-length timers are always done.
func (t Timer) Done() bool {
	return t.CurrentTime >= t.InitialTime
}

// Progress returns the elapsed fraction in [0, 1].
func (t Timer) Progress() float64 {
	if t.InitialTime <= 0 {
		return 1
	}
	return float64(t.CurrentTime) / float64(t.InitialTime)
}

// Waiting reports whether the timer is armed and waiting for its staggered start.
func (t Timer) Waiting() bool {
	return t.Phase == PhaseIdle && t.Pending
}
