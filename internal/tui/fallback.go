package tui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/npratt/racetimer/internal/events"
)

// isTerminal returns true if both stdout and stdin are TTYs.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// terminalSize returns the current terminal width and height.
// Returns 0, 0 if the terminal size cannot be determined.
func terminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0
	}
	return width, height
}

// terminalTooSmall returns true if the terminal is below the minimum size.
func terminalTooSmall() bool {
	width, height := terminalSize()
	return width < minWidth || height < minHeight
}

// runSimple prints one line per event until the channel closes or the
// process is interrupted. The race itself is driven over the socket.
func (t *TUI) runSimple() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	return t.printEvents(sigChan)
}

func (t *TUI) printEvents(stop <-chan os.Signal) error {
	if t.controller != nil {
		snap := t.controller.Snapshot()
		if _, err := fmt.Fprintf(t.out, "racetimer %s, %d timers\n", snap.State(), len(snap.Timers)); err != nil {
			return err
		}
	}

	defer func() {
		if t.onQuit != nil {
			t.onQuit()
		}
	}()

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-t.eventChan:
			if !ok {
				return nil
			}

			if events.Format(event) == "" {
				continue
			}
			if _, err := fmt.Fprintln(t.out, events.FormatWithTimestamp(event)); err != nil {
				return err
			}
		}
	}
}
