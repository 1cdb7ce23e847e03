// Package events defines the lifecycle event taxonomy and the channel-based
// router that fans events out to the terminal UI and the event log.
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

// Event types.
const (
	// Per-timer events
	EventTimerAdded     EventType = "timer.added"
	EventTimerUpdated   EventType = "timer.updated"
	EventTimerActivated EventType = "timer.activated"
	EventTimerTick      EventType = "timer.tick"
	EventTimerExpired   EventType = "timer.expired"

	// Race-wide events
	EventRaceStarted   EventType = "race.started"
	EventRacePaused    EventType = "race.paused"
	EventRaceResumed   EventType = "race.resumed"
	EventRaceStopped   EventType = "race.stopped"
	EventRaceReset     EventType = "race.reset"
	EventRaceRestarted EventType = "race.restarted"
	EventRaceFinished  EventType = "race.finished"
	EventTimersDeleted EventType = "timers.deleted"

	// Error events
	EventStoreError EventType = "store.error"
)

// Source constants identify the origin of events.
const (
	SourceController = "controller"
	SourceStore      = "store"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// NewEvent creates a BaseEvent stamped with the given time.
func NewEvent(eventType EventType, source string, at time.Time) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      at,
		Src:       source,
	}
}

// NewControllerEvent creates a BaseEvent from the lifecycle controller.
func NewControllerEvent(eventType EventType, at time.Time) BaseEvent {
	return NewEvent(eventType, SourceController, at)
}

// TimerAddedEvent is emitted when a timer is created.
type TimerAddedEvent struct {
	BaseEvent
	TimerID  string `json:"timer_id"`
	Duration int    `json:"duration"`
}

// TimerUpdatedEvent is emitted when a timer's configured duration changes.
type TimerUpdatedEvent struct {
	BaseEvent
	TimerID string `json:"timer_id"`
	From    int    `json:"from"`
	To      int    `json:"to"`
}

// TimerActivatedEvent is emitted when a timer's staggered activation fires
// and its countdown begins or continues.
type TimerActivatedEvent struct {
	BaseEvent
	TimerID   string `json:"timer_id"`
	Remaining int    `json:"remaining"`
}

// TimerTickEvent is emitted for every elapsed second of a running timer.
type TimerTickEvent struct {
	BaseEvent
	TimerID     string `json:"timer_id"`
	CurrentTime int    `json:"current_time"`
	InitialTime int    `json:"initial_time"`
}

// TimerExpiredEvent is emitted when a timer reaches its configured duration.
type TimerExpiredEvent struct {
	BaseEvent
	TimerID  string `json:"timer_id"`
	Duration int    `json:"duration"`
}

// ScheduledTimer is one entry of a race start plan.
type ScheduledTimer struct {
	TimerID string `json:"timer_id"`
	DelayMs int64  `json:"delay_ms"`
}

// RaceStartedEvent is emitted when a synchronized start is scheduled.
type RaceStartedEvent struct {
	BaseEvent
	Timers   []ScheduledTimer `json:"timers"`
	FinishMs int64            `json:"finish_ms"` // time until every timer expires
}

// RaceRestartedEvent is emitted by reset-to-initial-and-start.
type RaceRestartedEvent struct {
	BaseEvent
	Timers   []ScheduledTimer `json:"timers"`
	FinishMs int64            `json:"finish_ms"`
}

// RacePausedEvent is emitted when running and waiting timers are frozen.
type RacePausedEvent struct {
	BaseEvent
	Running int `json:"running"`
	Waiting int `json:"waiting"`
}

// RaceResumedEvent is emitted when paused timers are rescheduled.
type RaceResumedEvent struct {
	BaseEvent
	Timers   []ScheduledTimer `json:"timers"`
	FinishMs int64            `json:"finish_ms"`
}

// RaceStoppedEvent is emitted when every timer is interrupted and zeroed.
type RaceStoppedEvent struct {
	BaseEvent
	Timers int `json:"timers"`
}

// RaceResetEvent is emitted when elapsed and configured times are cleared.
type RaceResetEvent struct {
	BaseEvent
	Timers int `json:"timers"`
}

// RaceFinishedEvent is emitted when the last running timer expires.
type RaceFinishedEvent struct {
	BaseEvent
	Timers int `json:"timers"`
}

// TimersDeletedEvent is emitted when every timer is removed.
type TimersDeletedEvent struct {
	BaseEvent
	Count int `json:"count"`
}

// StoreErrorEvent is emitted when the snapshot could not be read or written.
type StoreErrorEvent struct {
	BaseEvent
	Op      string `json:"op"`
	Message string `json:"message"`
}
