package tui

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/npratt/racetimer/internal/config"
	"github.com/npratt/racetimer/internal/controller"
	"github.com/npratt/racetimer/internal/store"
	"github.com/npratt/racetimer/internal/testutil"
)

// newTestController returns a real controller on a fake clock, so key
// presses change state synchronously.
func newTestController(t *testing.T, durations ...int) (*controller.Controller, *testutil.FakeClock) {
	t.Helper()
	clk := testutil.NewFakeClock()
	ctrl := controller.New(config.Default(), store.NewMemory(), clk, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(ctrl.Close)

	for _, d := range durations {
		if _, err := ctrl.Add(d); err != nil {
			t.Fatalf("Add(%d): %v", d, err)
		}
	}
	return ctrl, clk
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press feeds keys through Update and returns the resulting model.
func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}
