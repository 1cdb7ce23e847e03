package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/timer"
)

const (
	minWidth  = 50
	minHeight = 12

	// rowChrome is the width of a timer row without its progress bar:
	// container border and padding, cursor, id, clocks, and phase label.
	rowChrome = 4 + 2 + 8 + 2 + 2 + 13 + 2 + 8
	minBar    = 10
)

func barWidth(termWidth int) int {
	return max(minBar, termWidth-rowChrome)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	sections := []string{
		m.renderHeader(),
		m.renderDivider(),
		m.renderTimers(),
		m.renderDivider(),
		m.renderEvents(),
		m.renderDivider(),
		m.renderFooter(),
	}

	rendered := styles.Container.
		Width(safeWidth(m.width - 2)).
		Render(strings.Join(sections, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, rendered)
}

func (m model) renderTooSmall() string {
	msg := fmt.Sprintf("Terminal too small (%dx%d), need %dx%d", m.width, m.height, minWidth, minHeight)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// renderHeader shows the race state and per-phase counts.
func (m model) renderHeader() string {
	state := m.snap.State()
	running, waiting, paused, expired := m.snap.Counts()

	title := styles.Title.Render("racetimer")
	badge := StyleForRace(state).Render(state)
	counts := styles.Counts.Render(fmt.Sprintf("%d timers | %d running | %d waiting | %d paused | %d expired",
		len(m.snap.Timers), running, waiting, paused, expired))

	return title + "  " + badge + "  " + counts
}

func (m model) renderDivider() string {
	return styles.Divider.Render(strings.Repeat("─", safeWidth(m.width-4)))
}

// renderTimers draws one row per timer: cursor, id, bar, clocks, phase.
func (m model) renderTimers() string {
	if m.snap.Empty {
		return styles.StatusIdle.Render("no timers, press a to add one")
	}

	rows := make([]string, 0, len(m.snap.Timers))
	for i, t := range m.snap.Timers {
		cursor := "  "
		id := styles.TimerID.Render(events.ShortID(t.ID))
		if i == m.selected {
			cursor = styles.Selected.Render("> ")
			id = styles.Selected.Render(events.ShortID(t.ID))
		}

		clocks := styles.Clock.Render(fmt.Sprintf("%s / %s",
			timer.FormatClock(t.Remaining()), timer.FormatClock(t.InitialTime)))
		label := StyleForTimer(t).Render(phaseLabel(t))

		rows = append(rows, fmt.Sprintf("%s%s  %s  %s  %s", cursor, id, m.bar.ViewAs(t.Progress()), clocks, label))
	}
	return strings.Join(rows, "\n")
}

// phaseLabel names a timer's phase, telling waiting timers apart from idle ones.
func phaseLabel(t timer.Timer) string {
	if t.Waiting() {
		return "waiting"
	}
	return string(t.Phase)
}

// renderEvents shows the tail of the event log that fits.
func (m model) renderEvents() string {
	visible := m.visibleEventLines()
	if len(m.eventLines) == 0 {
		return styles.Event.Render("no events yet")
	}

	start := max(0, len(m.eventLines)-visible)
	lines := make([]string, 0, visible)
	for _, el := range m.eventLines[start:] {
		ts := el.Time.Format("15:04:05")
		lines = append(lines, el.Style.Render(ts+" "+el.Text))
	}
	return strings.Join(lines, "\n")
}

// visibleEventLines is the height left for the log after the other sections.
func (m model) visibleEventLines() int {
	// border (2), header (1), dividers (3), footer (2)
	used := 8 + max(1, len(m.snap.Timers))
	return max(1, m.height-used)
}

// renderFooter shows the prompt, the last notice, or the key help.
func (m model) renderFooter() string {
	var lines []string
	if m.mode != modeBrowse {
		lines = append(lines, m.input.View())
	}
	if m.notice != "" {
		lines = append(lines, styles.Notice.Render(m.notice))
	}
	if m.showHelp {
		lines = append(lines, styles.Footer.Render(m.help.View(m.keys)))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

// safeWidth returns a non-negative width for rendering.
func safeWidth(w int) int {
	return max(0, w)
}
