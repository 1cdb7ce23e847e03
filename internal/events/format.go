package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/npratt/racetimer/internal/timer"
)

// shortIDLength is how many characters of a timer id are shown.
const shortIDLength = 8

// Format converts an event to a human-readable string for display.
// Returns empty string for nil events and for tick events, which are too
// frequent to log line by line.
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *TimerAddedEvent:
		return fmt.Sprintf("timer %s added (%s)", ShortID(e.TimerID), timer.FormatClock(e.Duration))
	case *TimerUpdatedEvent:
		return fmt.Sprintf("timer %s updated %s -> %s",
			ShortID(e.TimerID), timer.FormatClock(e.From), timer.FormatClock(e.To))
	case *TimerActivatedEvent:
		return fmt.Sprintf("timer %s running (%s left)", ShortID(e.TimerID), timer.FormatClock(e.Remaining))
	case *TimerExpiredEvent:
		return fmt.Sprintf("timer %s expired after %s", ShortID(e.TimerID), timer.FormatClock(e.Duration))
	case *RaceStartedEvent:
		return formatPlan("race started", e.Timers, e.FinishMs)
	case *RaceRestartedEvent:
		return formatPlan("race restarted", e.Timers, e.FinishMs)
	case *RaceResumedEvent:
		return formatPlan("race resumed", e.Timers, e.FinishMs)
	case *RacePausedEvent:
		return fmt.Sprintf("race paused (%d running, %d waiting)", e.Running, e.Waiting)
	case *RaceStoppedEvent:
		return fmt.Sprintf("race stopped (%s zeroed)", plural(e.Timers, "timer"))
	case *RaceResetEvent:
		return fmt.Sprintf("race reset (%s cleared)", plural(e.Timers, "timer"))
	case *RaceFinishedEvent:
		return fmt.Sprintf("race finished: %s expired together", plural(e.Timers, "timer"))
	case *TimersDeletedEvent:
		return fmt.Sprintf("deleted %s", plural(e.Count, "timer"))
	case *StoreErrorEvent:
		return fmt.Sprintf("store %s failed: %s", e.Op, e.Message)
	default:
		return ""
	}
}

// FormatWithTimestamp formats an event with a timestamp prefix.
// Used for the line-mode fallback and the events command.
func FormatWithTimestamp(event Event) string {
	if event == nil {
		return ""
	}
	ts := event.Timestamp().Format("15:04:05")
	detail := Format(event)
	if detail == "" {
		return fmt.Sprintf("[%s] %s", ts, event.Type())
	}
	return fmt.Sprintf("[%s] %s", ts, detail)
}

// ShortID abbreviates a timer id for display.
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func formatPlan(prefix string, timers []ScheduledTimer, finishMs int64) string {
	if len(timers) == 0 {
		return prefix
	}

	var staggered []string
	for _, t := range timers {
		if t.DelayMs > 0 {
			d := time.Duration(t.DelayMs) * time.Millisecond
			staggered = append(staggered, fmt.Sprintf("%s+%s", ShortID(t.TimerID), d.Round(100*time.Millisecond)))
		}
	}

	finish := (time.Duration(finishMs) * time.Millisecond).Round(time.Second)
	msg := fmt.Sprintf("%s: %s, finish in %s", prefix, plural(len(timers), "timer"), finish)
	if len(staggered) > 0 {
		msg += " (delayed " + strings.Join(staggered, ", ") + ")"
	}
	return msg
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
