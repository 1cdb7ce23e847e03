package events

import (
	"encoding/json"
	"testing"
	"time"
)

// TestEventInterfaceCompliance verifies all concrete event types implement Event.
func TestEventInterfaceCompliance(t *testing.T) {
	var _ Event = (*TimerAddedEvent)(nil)
	var _ Event = (*TimerUpdatedEvent)(nil)
	var _ Event = (*TimerActivatedEvent)(nil)
	var _ Event = (*TimerTickEvent)(nil)
	var _ Event = (*TimerExpiredEvent)(nil)
	var _ Event = (*RaceStartedEvent)(nil)
	var _ Event = (*RaceRestartedEvent)(nil)
	var _ Event = (*RacePausedEvent)(nil)
	var _ Event = (*RaceResumedEvent)(nil)
	var _ Event = (*RaceStoppedEvent)(nil)
	var _ Event = (*RaceResetEvent)(nil)
	var _ Event = (*RaceFinishedEvent)(nil)
	var _ Event = (*TimersDeletedEvent)(nil)
	var _ Event = (*StoreErrorEvent)(nil)
	var _ Event = (*BaseEvent)(nil)

	var _ Emitter = (*Router)(nil)
}

func TestBaseEventMethods(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	event := NewEvent(EventRaceStarted, SourceController, now)

	if event.Type() != EventRaceStarted {
		t.Errorf("Type() = %v, want %v", event.Type(), EventRaceStarted)
	}
	if !event.Timestamp().Equal(now) {
		t.Errorf("Timestamp() = %v, want %v", event.Timestamp(), now)
	}
	if event.Source() != SourceController {
		t.Errorf("Source() = %v, want %v", event.Source(), SourceController)
	}
}

func TestEventJSON(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	event := &RaceStartedEvent{
		BaseEvent: NewControllerEvent(EventRaceStarted, now),
		Timers: []ScheduledTimer{
			{TimerID: "a", DelayMs: 60000},
			{TimerID: "b", DelayMs: 0},
		},
		FinishMs: 90000,
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["type"] != string(EventRaceStarted) {
		t.Errorf("type = %v, want %s", decoded["type"], EventRaceStarted)
	}
	if decoded["source"] != SourceController {
		t.Errorf("source = %v, want %s", decoded["source"], SourceController)
	}
	if decoded["finish_ms"] != float64(90000) {
		t.Errorf("finish_ms = %v, want 90000", decoded["finish_ms"])
	}
	timers, ok := decoded["timers"].([]any)
	if !ok || len(timers) != 2 {
		t.Fatalf("timers = %v, want 2 entries", decoded["timers"])
	}
}
