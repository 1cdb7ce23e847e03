package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/racetimer/internal/controller"
	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/timer"
)

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header and footer
	Title  lipgloss.Style
	Counts lipgloss.Style
	Footer lipgloss.Style
	Notice lipgloss.Style

	// Timer rows
	Selected lipgloss.Style
	TimerID  lipgloss.Style
	Clock    lipgloss.Style

	// Race and timer states
	StatusIdle     lipgloss.Style
	StatusRunning  lipgloss.Style
	StatusWaiting  lipgloss.Style
	StatusPaused   lipgloss.Style
	StatusFinished lipgloss.Style

	// Event log
	Event lipgloss.Style
	Error lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Counts: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Notice: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),

	Selected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	TimerID: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	Clock: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")),

	StatusIdle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	StatusRunning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	StatusWaiting: lipgloss.NewStyle().
		Foreground(lipgloss.Color("177")),

	StatusPaused: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),

	StatusFinished: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("114")),

	Event: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
}

// StyleForRace returns the badge style for a Snapshot.State value.
func StyleForRace(state string) lipgloss.Style {
	switch state {
	case controller.StateRunning:
		return styles.StatusRunning
	case controller.StatePaused:
		return styles.StatusPaused
	case controller.StateFinished:
		return styles.StatusFinished
	default:
		return styles.StatusIdle
	}
}

// StyleForTimer returns the style for a timer row's phase label.
func StyleForTimer(t timer.Timer) lipgloss.Style {
	switch {
	case t.Waiting():
		return styles.StatusWaiting
	case t.Phase == timer.PhaseRunning:
		return styles.StatusRunning
	case t.Phase == timer.PhasePaused:
		return styles.StatusPaused
	case t.Phase == timer.PhaseExpired:
		return styles.StatusFinished
	default:
		return styles.StatusIdle
	}
}

// StyleForEvent returns the log style for an event.
func StyleForEvent(event events.Event) lipgloss.Style {
	switch event.(type) {
	case *events.StoreErrorEvent:
		return styles.Error
	case *events.RaceFinishedEvent, *events.TimerExpiredEvent:
		return styles.StatusFinished
	case *events.RacePausedEvent:
		return styles.StatusPaused
	case *events.RaceStartedEvent, *events.RaceResumedEvent, *events.RaceRestartedEvent, *events.TimerActivatedEvent:
		return styles.StatusRunning
	default:
		return styles.Event
	}
}
