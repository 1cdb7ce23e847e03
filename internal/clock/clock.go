// Package clock abstracts "now" and "run this later" so deferred timer work
// can be canceled explicitly and tested without real time.
package clock

import "time"

// Clock supplies the current time and one-shot deferred execution.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc calls f in its own goroutine once d has elapsed and returns a
	// handle that can cancel the call.
	AfterFunc(d time.Duration, f func()) Handle
}

// Handle is a cancelable scheduled call.
type Handle interface {
	// Stop prevents the call from firing. It reports false if the call
	// already fired or was already stopped.
	Stop() bool
}

// Real implements Clock with the time package.
type Real struct{}

// New returns the wall clock.
func New() Real {
	return Real{}
}

// Now returns time.Now().
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, f func()) Handle {
	return time.AfterFunc(max(0, d), f)
}
