package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/racetimer/internal/controller"
	"github.com/npratt/racetimer/internal/events"
)

const (
	// defaultRefresh is the snapshot poll interval when none is configured.
	defaultRefresh = 250 * time.Millisecond
	// maxEventLines is the maximum number of event lines to keep in the buffer.
	maxEventLines = 200
	// trimEventLines is the number of lines to remove when buffer exceeds max.
	trimEventLines = 20
)

// inputMode is what the duration prompt is collecting.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

// eventLine represents a formatted event for display.
type eventLine struct {
	Time  time.Time
	Text  string
	Style lipgloss.Style
}

// model is the bubbletea model for the timer board.
type model struct {
	ctrl      Controller
	eventChan <-chan events.Event

	snap     controller.Snapshot
	controls controls
	selected int

	keys  keyMap
	help  help.Model
	bar   progress.Model
	input textinput.Model
	mode  inputMode
	// editID is the timer the prompt edits in modeEdit.
	editID string
	notice string

	eventLines []eventLine

	width    int
	height   int
	refresh  time.Duration
	showHelp bool
	onQuit   func()
}

// eventMsg wraps an event for the bubbletea message system.
type eventMsg events.Event

// newModel creates a model and reads the first snapshot.
func newModel(ctrl Controller, eventChan <-chan events.Event, onQuit func(), refresh time.Duration, showHelp bool) model {
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	input := textinput.New()
	input.Placeholder = "mm:ss, 90, 1m30s"
	input.CharLimit = 64

	m := model{
		ctrl:      ctrl,
		eventChan: eventChan,
		keys:      newKeyMap(),
		help:      help.New(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:     input,
		refresh:   refresh,
		showHelp:  showHelp,
		onQuit:    onQuit,
	}
	m.sync()
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.eventChan),
		doRefresh(m.refresh),
	)
}

// sync re-reads the controller snapshot and recomputes enabled controls.
func (m *model) sync() {
	if m.ctrl != nil {
		m.snap = m.ctrl.Snapshot()
	}
	m.selected = min(m.selected, max(0, len(m.snap.Timers)-1))
	m.controls = controlsFor(m.snap)
	m.keys.apply(m.controls)
}

// openInput focuses the duration prompt.
func (m *model) openInput(mode inputMode, id, value string) tea.Cmd {
	m.mode = mode
	m.editID = id
	m.notice = ""
	if mode == modeAdd {
		m.input.Prompt = "add> "
	} else {
		m.input.Prompt = "edit " + events.ShortID(id) + "> "
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) closeInput() {
	m.mode = modeBrowse
	m.editID = ""
	m.input.Blur()
	m.input.Reset()
}

// appendEvent adds a formatted event to the log, trimming old lines.
func (m *model) appendEvent(event events.Event) {
	text := events.Format(event)
	if text == "" {
		return
	}
	m.eventLines = append(m.eventLines, eventLine{
		Time:  event.Timestamp(),
		Text:  text,
		Style: StyleForEvent(event),
	})
	if len(m.eventLines) > maxEventLines {
		m.eventLines = m.eventLines[trimEventLines:]
	}
}
