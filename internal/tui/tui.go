// Package tui provides the terminal timer board for racetimer using bubbletea.
package tui

import (
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/racetimer/internal/controller"
	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/timer"
)

// Controller is the set of intents the board can send.
type Controller interface {
	AddAll(seconds ...int) ([]timer.Timer, error)
	StartAll()
	PauseAll()
	ResumeAll()
	StopAll()
	ResetAll()
	ResetToInitialAndStart()
	UpdateDuration(id string, seconds int) error
	DeleteAll()
	Snapshot() controller.Snapshot
}

// TUI is the terminal UI for a race.
type TUI struct {
	controller Controller
	eventChan  <-chan events.Event
	onQuit     func()
	refresh    time.Duration
	showHelp   bool
	out        io.Writer
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a TUI driving ctrl and showing events from eventChan.
func New(ctrl Controller, eventChan <-chan events.Event, opts ...Option) *TUI {
	t := &TUI{
		controller: ctrl,
		eventChan:  eventChan,
		refresh:    defaultRefresh,
		showHelp:   true,
		out:        os.Stdout,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithOnQuit sets the callback invoked when the user quits.
func WithOnQuit(fn func()) Option {
	return func(t *TUI) {
		t.onQuit = fn
	}
}

// WithRefreshInterval sets how often the board re-reads the snapshot
// between events.
func WithRefreshInterval(d time.Duration) Option {
	return func(t *TUI) {
		if d > 0 {
			t.refresh = d
		}
	}
}

// WithShowHelp controls whether the key help line is drawn.
func WithShowHelp(show bool) Option {
	return func(t *TUI) {
		t.showHelp = show
	}
}

// WithOutput sets where line mode writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(t *TUI) {
		t.out = w
	}
}

// Run starts the board and blocks until it exits. Without a usable terminal
// it prints events line by line instead.
func (t *TUI) Run() error {
	if !isTerminal() || terminalTooSmall() {
		return t.runSimple()
	}

	m := newModel(t.controller, t.eventChan, t.onQuit, t.refresh, t.showHelp)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
