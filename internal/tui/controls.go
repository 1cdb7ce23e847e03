package tui

import "github.com/npratt/racetimer/internal/controller"

// controls says which intents the current race state allows.
type controls struct {
	Add       bool
	Edit      bool
	Start     bool
	Pause     bool
	Resume    bool
	Stop      bool
	Reset     bool
	Restart   bool
	DeleteAll bool
}

func controlsFor(s controller.Snapshot) controls {
	running := s.AnyRunning
	settled := !running && !s.AnyPaused
	return controls{
		Add:       !running,
		Edit:      settled && !s.Empty,
		Start:     !s.Empty,
		Pause:     running && !s.AllExpired,
		Resume:    s.AnyPaused,
		Stop:      running && !s.AllExpired,
		Reset:     !running && !s.Empty,
		Restart:   running,
		DeleteAll: !running && !s.Empty,
	}
}
