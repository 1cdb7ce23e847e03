package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/npratt/racetimer/internal/clock"
)

// FakeClock is a deterministic clock.Clock. Scheduled calls run synchronously
// inside Advance, in due-time order, with Now() reporting each call's due time.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*fakeCall
}

type fakeCall struct {
	clock   *FakeClock
	due     time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewFakeClock returns a FakeClock starting at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current virtual time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules fn to run once virtual time reaches now+d.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) clock.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	call := &fakeCall{
		clock: c,
		due:   c.now.Add(max(0, d)),
		seq:   c.seq,
		fn:    fn,
	}
	c.pending = append(c.pending, call)
	return call
}

// Advance moves virtual time forward by d, running every call that comes due.
// Calls scheduled while advancing run too if they fall inside the window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		call := c.nextDue(target)
		if call == nil {
			break
		}
		call.fn()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

// Flush runs calls that are already due without moving time.
func (c *FakeClock) Flush() {
	c.Advance(0)
}

// Pending returns the number of calls that have neither fired nor been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.pending {
		if !call.stopped && !call.fired {
			n++
		}
	}
	return n
}

// nextDue pops the earliest live call due at or before target and moves the
// clock to its due time.
func (c *FakeClock) nextDue(target time.Time) *fakeCall {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.pending[:0]
	for _, call := range c.pending {
		if !call.stopped && !call.fired {
			live = append(live, call)
		}
	}
	c.pending = live

	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].due.Equal(c.pending[j].due) {
			return c.pending[i].seq < c.pending[j].seq
		}
		return c.pending[i].due.Before(c.pending[j].due)
	})

	if len(c.pending) == 0 || c.pending[0].due.After(target) {
		return nil
	}

	call := c.pending[0]
	call.fired = true
	c.pending = c.pending[1:]
	if call.due.After(c.now) {
		c.now = call.due
	}
	return call
}

// Stop cancels the call.
func (f *fakeCall) Stop() bool {
	f.clock.mu.Lock()
	defer f.clock.mu.Unlock()
	if f.stopped || f.fired {
		return false
	}
	f.stopped = true
	return true
}
