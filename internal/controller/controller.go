// Package controller owns the timer registry and turns user intents into
// registry mutations, staggered activations, and per-second tick chains.
package controller

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/npratt/racetimer/internal/clock"
	"github.com/npratt/racetimer/internal/config"
	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/store"
	"github.com/npratt/racetimer/internal/timer"
)

// Controller coordinates the registry, the stagger scheduler, the clock, and
// the persistence gateway. Every exported method and every clock callback
// runs under one mutex, so each operation is atomic to its caller.
type Controller struct {
	config  *config.Config
	reg     *timer.Registry
	store   store.Gateway
	clock   clock.Clock
	emitter events.Emitter
	logger  *slog.Logger

	mu     sync.Mutex
	slots  map[string]*slot
	closed bool
}

// New creates a Controller and loads the persisted snapshot.
// A nil gateway keeps timers in memory only, a nil clock uses wall time, and
// a nil emitter discards events.
func New(cfg *config.Config, gw store.Gateway, clk clock.Clock, emitter events.Emitter, logger *slog.Logger) *Controller {
	if cfg == nil {
		cfg = config.Default()
	}
	if gw == nil {
		gw = store.NewMemory()
	}
	if clk == nil {
		clk = clock.New()
	}
	if emitter == nil {
		emitter = discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		config:  cfg,
		reg:     timer.NewRegistry(),
		store:   gw,
		clock:   clk,
		emitter: emitter,
		logger:  logger,
		slots:   make(map[string]*slot),
	}
	c.load()
	return c
}

// load replaces the registry with the stored snapshot. A failed load leaves
// the registry empty.
func (c *Controller) load() {
	timers, err := c.store.Load()
	if err != nil {
		c.storeFailed("load", err)
		return
	}
	c.reg.Replace(timers)
	if n := c.reg.Len(); n > 0 {
		c.logger.Info("timers restored", "count", n)
	}
}

// Add creates an idle timer with the given duration in seconds.
func (c *Controller) Add(seconds int) (timer.Timer, error) {
	added, err := c.AddAll(seconds)
	if err != nil {
		return timer.Timer{}, err
	}
	return added[0], nil
}

// AddAll creates one idle timer per duration. Every duration is checked
// before any timer is created, so one bad value adds nothing.
func (c *Controller) AddAll(seconds ...int) ([]timer.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(seconds) == 0 {
		return nil, fmt.Errorf("add timer: %w: no durations given", timer.ErrInvalidDuration)
	}
	for _, s := range seconds {
		if err := c.checkDuration(s, false); err != nil {
			return nil, fmt.Errorf("add timer: %w", err)
		}
	}

	added := make([]timer.Timer, 0, len(seconds))
	for _, s := range seconds {
		t, err := c.reg.Add(s)
		if err != nil {
			return added, fmt.Errorf("add timer: %w", err)
		}
		c.logger.Info("timer added", "timer_id", t.ID, "duration", s)
		c.emit(&events.TimerAddedEvent{
			BaseEvent: events.NewControllerEvent(events.EventTimerAdded, c.clock.Now()),
			TimerID:   t.ID,
			Duration:  s,
		})
		added = append(added, t)
	}
	c.persist()
	return added, nil
}

// StartAll schedules a synchronized start of every timer from zero elapsed
// time. It does nothing when there are no timers or when a race is already
// running, waiting, or paused.
func (c *Controller) StartAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reg.Len() == 0 {
		c.logger.Debug("start ignored: no timers")
		return
	}
	if c.active() {
		c.logger.Debug("start ignored: race in progress")
		return
	}

	c.cancelAll()
	c.reg.ResetToInitialAll()
	plan, finish := c.startRace()

	c.logger.Info("race started", "timers", len(plan), "finish", finish)
	c.emit(&events.RaceStartedEvent{
		BaseEvent: events.NewControllerEvent(events.EventRaceStarted, c.clock.Now()),
		Timers:    plan,
		FinishMs:  finish.Milliseconds(),
	})
	c.finishIfDone()
}

// PauseAll freezes every running timer and every outstanding activation.
func (c *Controller) PauseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	var running, waiting int
	for _, t := range c.reg.Timers() {
		s := c.slot(t.ID)
		switch {
		case t.Phase == timer.PhaseRunning:
			s.progress = min(max(0, now.Sub(s.lastTickAt)), c.interval())
			c.cancel(t.ID)
			c.reg.SetPhase(t.ID, timer.PhasePaused)
			running++
		case t.Waiting():
			residual := s.residual(now)
			c.cancel(t.ID)
			c.reg.SetPending(t.ID, residual)
			c.reg.SetPhase(t.ID, timer.PhasePaused)
			waiting++
		}
	}

	if running+waiting == 0 {
		c.logger.Debug("pause ignored: nothing running")
		return
	}

	c.logger.Info("race paused", "running", running, "waiting", waiting)
	c.emit(&events.RacePausedEvent{
		BaseEvent: events.NewControllerEvent(events.EventRacePaused, now),
		Running:   running,
		Waiting:   waiting,
	})
}

// ResumeAll reschedules every paused timer so they still finish together.
// Timers that were waiting when paused get their remaining pre-start delay
// back; running timers continue their partial second.
func (c *Controller) ResumeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var paused []timer.Timer
	for _, t := range c.reg.Timers() {
		if t.Phase == timer.PhasePaused {
			paused = append(paused, t)
		}
	}
	if len(paused) == 0 {
		c.logger.Debug("resume ignored: nothing paused")
		return
	}

	plan, finish := c.schedule(paused)

	c.logger.Info("race resumed", "timers", len(plan), "finish", finish)
	c.emit(&events.RaceResumedEvent{
		BaseEvent: events.NewControllerEvent(events.EventRaceResumed, c.clock.Now()),
		Timers:    plan,
		FinishMs:  finish.Milliseconds(),
	})
	c.finishIfDone()
}

// StopAll interrupts every timer and zeroes its elapsed time. Durations are kept.
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelAll()
	c.reg.ResetToInitialAll()

	n := c.reg.Len()
	c.logger.Info("race stopped", "timers", n)
	c.emit(&events.RaceStoppedEvent{
		BaseEvent: events.NewControllerEvent(events.EventRaceStopped, c.clock.Now()),
		Timers:    n,
	})
}

// ResetAll interrupts every timer and clears both elapsed and configured time.
func (c *Controller) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelAll()
	c.reg.ResetAll()

	n := c.reg.Len()
	c.logger.Info("race reset", "timers", n)
	c.emit(&events.RaceResetEvent{
		BaseEvent: events.NewControllerEvent(events.EventRaceReset, c.clock.Now()),
		Timers:    n,
	})
	c.persist()
}

// ResetToInitialAndStart restarts the race from zero elapsed time with the
// configured durations, whatever state the timers are in.
func (c *Controller) ResetToInitialAndStart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelAll()
	c.reg.ResetToInitialAll()
	plan, finish := c.startRace()

	c.logger.Info("race restarted", "timers", len(plan), "finish", finish)
	c.emit(&events.RaceRestartedEvent{
		BaseEvent: events.NewControllerEvent(events.EventRaceRestarted, c.clock.Now()),
		Timers:    plan,
		FinishMs:  finish.Milliseconds(),
	})
	c.persist()
	c.finishIfDone()
}

// UpdateDuration changes one timer's configured duration. Elapsed time is kept
// and clamped to the new duration. The call is ignored while a race is in
// progress or when the id is unknown.
func (c *Controller) UpdateDuration(id string, seconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkDuration(seconds, true); err != nil {
		return fmt.Errorf("update timer: %w", err)
	}
	if c.active() {
		c.logger.Debug("update ignored: race in progress", "timer_id", id)
		return nil
	}
	before, ok := c.reg.Get(id)
	if !ok {
		c.logger.Debug("update ignored: unknown timer", "timer_id", id)
		return nil
	}

	if err := c.reg.Update(id, seconds); err != nil {
		return fmt.Errorf("update timer: %w", err)
	}

	c.logger.Info("timer updated", "timer_id", id, "from", before.InitialTime, "to", seconds)
	c.emit(&events.TimerUpdatedEvent{
		BaseEvent: events.NewControllerEvent(events.EventTimerUpdated, c.clock.Now()),
		TimerID:   id,
		From:      before.InitialTime,
		To:        seconds,
	})
	c.persist()
	return nil
}

// DeleteAll removes every timer and clears the stored snapshot.
func (c *Controller) DeleteAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelAll()
	n := c.reg.Len()
	c.reg.RemoveAll()
	c.slots = make(map[string]*slot)

	if err := c.store.Clear(); err != nil {
		c.storeFailed("clear", err)
	}

	c.logger.Info("timers deleted", "count", n)
	c.emit(&events.TimersDeletedEvent{
		BaseEvent: events.NewControllerEvent(events.EventTimersDeleted, c.clock.Now()),
		Count:     n,
	})
}

// Tick advances one running timer by a second. Tick chains call this
// internally; it is exported for drivers that count seconds themselves.
func (c *Controller) Tick(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tickLocked(id)
}

// Snapshot returns a copy of the timers and the derived race flags.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return newSnapshot(c.reg.Timers())
}

// Close cancels all deferred work. Later activations and ticks are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelAll()
	c.closed = true
}

// checkDuration validates a duration in seconds against the configured ceiling.
func (c *Controller) checkDuration(seconds int, allowZero bool) error {
	if seconds < 0 || (seconds == 0 && !allowZero) {
		return fmt.Errorf("%w: %d seconds", timer.ErrInvalidDuration, seconds)
	}
	if limit := c.config.MaxSeconds(); limit > 0 && seconds > limit {
		return fmt.Errorf("%w: %d seconds exceeds maximum of %d", timer.ErrInvalidDuration, seconds, limit)
	}
	return nil
}

// active reports whether any timer is running, waiting, or paused.
func (c *Controller) active() bool {
	for _, t := range c.reg.Timers() {
		if t.Phase == timer.PhaseRunning || t.Phase == timer.PhasePaused || t.Waiting() {
			return true
		}
	}
	return false
}

// persist writes the whole registry. Failures are reported, never retried.
func (c *Controller) persist() {
	if err := c.store.Save(c.reg.Timers()); err != nil {
		c.storeFailed("save", err)
	}
}

func (c *Controller) storeFailed(op string, err error) {
	c.logger.Warn("persistence unavailable", "op", op, "error", err)
	c.emit(&events.StoreErrorEvent{
		BaseEvent: events.NewEvent(events.EventStoreError, events.SourceStore, c.clock.Now()),
		Op:        op,
		Message:   err.Error(),
	})
}

func (c *Controller) emit(event events.Event) {
	c.emitter.Emit(event)
}

func (c *Controller) interval() time.Duration {
	if c.config.Timer.TickInterval <= 0 {
		return time.Second
	}
	return c.config.Timer.TickInterval
}

type discard struct{}

func (discard) Emit(events.Event) {}
