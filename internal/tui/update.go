package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/timer"
)

// channelClosedMsg signals that the event channel was closed.
type channelClosedMsg struct{}

// refreshMsg asks the model to re-read the snapshot.
type refreshMsg time.Time

// waitForEvent creates a command that waits for the next event from the channel.
// Returns channelClosedMsg if the channel is closed.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(event)
	}
}

func doRefresh(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.mode != modeBrowse {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil

	case eventMsg:
		m.appendEvent(events.Event(msg))
		m.sync()
		return m, waitForEvent(m.eventChan)

	case channelClosedMsg:
		slog.Info("event channel closed, exiting TUI")
		return m, tea.Quit

	case refreshMsg:
		m.sync()
		return m, doRefresh(m.refresh)

	default:
		if m.mode != modeBrowse {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.onQuit != nil {
		m.onQuit()
	}
	return m, tea.Quit
}

// handleKey processes keys while browsing the board.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.snap.Timers)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m, m.openInput(modeAdd, "", "")

	case key.Matches(msg, m.keys.Edit):
		t := m.snap.Timers[m.selected]
		return m, m.openInput(modeEdit, t.ID, timer.FormatClock(t.InitialTime))

	case key.Matches(msg, m.keys.Start):
		m.ctrl.StartAll()
	case key.Matches(msg, m.keys.Pause):
		m.ctrl.PauseAll()
	case key.Matches(msg, m.keys.Resume):
		m.ctrl.ResumeAll()
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.StopAll()
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.ResetAll()
	case key.Matches(msg, m.keys.Restart):
		m.ctrl.ResetToInitialAndStart()
	case key.Matches(msg, m.keys.DeleteAll):
		m.ctrl.DeleteAll()
		m.selected = 0

	default:
		return m, nil
	}

	m.sync()
	return m, nil
}

// handleInputKey processes keys while the duration prompt is open.
func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil

	case tea.KeyEnter:
		m.submit(m.input.Value())
		m.closeInput()
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit applies the prompt value. Add accepts several durations separated
// by spaces or commas; nothing is added if any of them is invalid.
func (m *model) submit(value string) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return
	}

	seconds := make([]int, 0, len(fields))
	for _, f := range fields {
		s, err := timer.ParseDuration(f)
		if err != nil {
			m.notice = err.Error()
			return
		}
		seconds = append(seconds, s)
	}

	switch m.mode {
	case modeAdd:
		if _, err := m.ctrl.AddAll(seconds...); err != nil {
			m.notice = err.Error()
			return
		}

	case modeEdit:
		if len(seconds) != 1 {
			m.notice = "edit takes a single duration"
			return
		}
		if err := m.ctrl.UpdateDuration(m.editID, seconds[0]); err != nil {
			m.notice = err.Error()
		}
	}
}
