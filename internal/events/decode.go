package events

import (
	"encoding/json"
	"fmt"
)

// Decode parses one line of the event log back into its concrete event type.
// Unknown types decode to a bare *BaseEvent so newer logs still print.
func Decode(data []byte) (Event, error) {
	var base BaseEvent
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var event Event
	switch base.EventType {
	case EventTimerAdded:
		event = &TimerAddedEvent{}
	case EventTimerUpdated:
		event = &TimerUpdatedEvent{}
	case EventTimerActivated:
		event = &TimerActivatedEvent{}
	case EventTimerTick:
		event = &TimerTickEvent{}
	case EventTimerExpired:
		event = &TimerExpiredEvent{}
	case EventRaceStarted:
		event = &RaceStartedEvent{}
	case EventRaceRestarted:
		event = &RaceRestartedEvent{}
	case EventRacePaused:
		event = &RacePausedEvent{}
	case EventRaceResumed:
		event = &RaceResumedEvent{}
	case EventRaceStopped:
		event = &RaceStoppedEvent{}
	case EventRaceReset:
		event = &RaceResetEvent{}
	case EventRaceFinished:
		event = &RaceFinishedEvent{}
	case EventTimersDeleted:
		event = &TimersDeletedEvent{}
	case EventStoreError:
		event = &StoreErrorEvent{}
	default:
		return &base, nil
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", base.EventType, err)
	}
	return event, nil
}
