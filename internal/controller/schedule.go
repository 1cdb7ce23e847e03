package controller

import (
	"time"

	"github.com/npratt/racetimer/internal/clock"
	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/scheduler"
	"github.com/npratt/racetimer/internal/timer"
)

// slot is the deferred work owned for one timer: at most one pending
// activation and at most one scheduled tick. gen is bumped on every cancel;
// callbacks carrying an older gen are discarded.
type slot struct {
	gen uint64

	activation clock.Handle
	armedAt    time.Time
	delay      time.Duration

	tick       clock.Handle
	lastTickAt time.Time
	// progress is how far into the current second the countdown was when it
	// was frozen. It is consumed by the next activation.
	progress time.Duration
}

// residual is what is left of the armed activation delay at now.
func (s *slot) residual(now time.Time) time.Duration {
	return scheduler.Residual(s.delay, now.Sub(s.armedAt))
}

func (c *Controller) slot(id string) *slot {
	s, ok := c.slots[id]
	if !ok {
		s = &slot{}
		c.slots[id] = s
	}
	return s
}

// current reports whether a callback armed with gen is still wanted.
func (c *Controller) current(id string, gen uint64) bool {
	if c.closed {
		return false
	}
	s, ok := c.slots[id]
	return ok && s.gen == gen
}

// cancel stops any activation or tick for id and invalidates callbacks that
// were already dispatched.
func (c *Controller) cancel(id string) {
	s := c.slot(id)
	if s.activation != nil {
		s.activation.Stop()
		s.activation = nil
	}
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	s.gen++
}

func (c *Controller) cancelAll() {
	for id := range c.slots {
		c.cancel(id)
	}
}

// startRace marks zero-length timers expired and schedules the rest from
// their full duration.
func (c *Controller) startRace() ([]events.ScheduledTimer, time.Duration) {
	var runnable []timer.Timer
	for _, t := range c.reg.Timers() {
		if t.InitialTime <= 0 {
			c.reg.SetPhase(t.ID, timer.PhaseExpired)
			c.emitExpired(t)
			continue
		}
		c.slot(t.ID).progress = 0
		runnable = append(runnable, t)
	}
	return c.schedule(runnable)
}

// schedule computes stagger delays over the remaining countdown of each
// timer and arms one activation per timer. Timers with no delay activate
// immediately. It returns the plan and the time until every timer finishes.
func (c *Controller) schedule(timers []timer.Timer) ([]events.ScheduledTimer, time.Duration) {
	if len(timers) == 0 {
		return nil, 0
	}

	entries := make([]scheduler.Entry, len(timers))
	var finish time.Duration
	for i, t := range timers {
		remaining := max(0, time.Duration(t.Remaining())*c.interval()-c.slot(t.ID).progress)
		entries[i] = scheduler.Entry{ID: t.ID, Remaining: remaining}
		finish = max(finish, remaining)
	}

	delays := scheduler.Plan(entries)
	plan := make([]events.ScheduledTimer, len(delays))
	for i, d := range delays {
		plan[i] = events.ScheduledTimer{TimerID: d.ID, DelayMs: d.Delay.Milliseconds()}
	}

	for _, d := range delays {
		c.reg.SetPhase(d.ID, timer.PhaseIdle)
		if d.Delay == 0 {
			c.cancel(d.ID)
			c.activate(d.ID)
			continue
		}
		c.arm(d.ID, d.Delay)
	}
	return plan, finish
}

// arm replaces any deferred work for id with one activation after delay.
func (c *Controller) arm(id string, delay time.Duration) {
	c.cancel(id)
	s := c.slot(id)
	s.armedAt = c.clock.Now()
	s.delay = delay
	c.reg.SetPending(id, delay)

	gen := s.gen
	s.activation = c.clock.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.current(id, gen) {
			return
		}
		s.activation = nil
		c.activate(id)
		c.finishIfDone()
	})
}

// activate moves a timer to Running and starts its tick chain. The first tick
// comes after whatever was left of the second that was in progress when the
// timer was frozen.
func (c *Controller) activate(id string) {
	t, ok := c.reg.Get(id)
	if !ok {
		return
	}
	c.reg.ClearPending(id)

	if t.Done() {
		c.reg.SetPhase(id, timer.PhaseExpired)
		c.emitExpired(t)
		return
	}

	s := c.slot(id)
	now := c.clock.Now()
	progress := s.progress
	s.progress = 0
	s.lastTickAt = now.Add(-progress)
	c.reg.SetPhase(id, timer.PhaseRunning)

	c.logger.Debug("timer activated", "timer_id", id, "remaining", t.Remaining())
	c.emit(&events.TimerActivatedEvent{
		BaseEvent: events.NewControllerEvent(events.EventTimerActivated, now),
		TimerID:   id,
		Remaining: t.Remaining(),
	})
	c.scheduleTick(id, c.interval()-progress)
}

// scheduleTick arms the next link of a timer's tick chain. Each tick is due
// one interval after the previous nominal tick so callback latency does not
// accumulate.
func (c *Controller) scheduleTick(id string, d time.Duration) {
	s := c.slot(id)
	gen := s.gen
	s.tick = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.current(id, gen) {
			return
		}
		s.tick = nil
		s.lastTickAt = s.lastTickAt.Add(c.interval())
		c.tickLocked(id)

		if t, ok := c.reg.Get(id); ok && t.Phase == timer.PhaseRunning {
			c.scheduleTick(id, max(0, s.lastTickAt.Add(c.interval()).Sub(c.clock.Now())))
		}
	})
}

func (c *Controller) tickLocked(id string) {
	if t, ok := c.reg.Get(id); !ok || t.Phase != timer.PhaseRunning {
		return
	}

	expired := c.reg.Tick(id)
	t, _ := c.reg.Get(id)
	c.emit(&events.TimerTickEvent{
		BaseEvent:   events.NewControllerEvent(events.EventTimerTick, c.clock.Now()),
		TimerID:     id,
		CurrentTime: t.CurrentTime,
		InitialTime: t.InitialTime,
	})

	if expired {
		c.cancel(id)
		c.emitExpired(t)
		c.finishIfDone()
	}
}

// finishIfDone emits race.finished once every timer has expired.
func (c *Controller) finishIfDone() {
	timers := c.reg.Timers()
	if len(timers) == 0 {
		return
	}
	for _, t := range timers {
		if t.Phase != timer.PhaseExpired {
			return
		}
	}

	c.logger.Info("race finished", "timers", len(timers))
	c.emit(&events.RaceFinishedEvent{
		BaseEvent: events.NewControllerEvent(events.EventRaceFinished, c.clock.Now()),
		Timers:    len(timers),
	})
}

func (c *Controller) emitExpired(t timer.Timer) {
	c.logger.Debug("timer expired", "timer_id", t.ID, "duration", t.InitialTime)
	c.emit(&events.TimerExpiredEvent{
		BaseEvent: events.NewControllerEvent(events.EventTimerExpired, c.clock.Now()),
		TimerID:   t.ID,
		Duration:  t.InitialTime,
	})
}
