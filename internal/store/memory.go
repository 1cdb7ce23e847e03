package store

import (
	"sync"
	"time"

	"github.com/npratt/racetimer/internal/timer"
)

// Memory is an in-process Gateway. It round-trips through Snapshot so it
// behaves like the file store on reload (timers come back idle).
type Memory struct {
	mu    sync.Mutex
	snap  *Snapshot
	saves int

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the last saved timers.
func (m *Memory) Load() ([]timer.Timer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return []timer.Timer{}, m.Err
	}
	if m.snap == nil {
		return []timer.Timer{}, nil
	}
	return m.snap.Restore(), nil
}

// Save replaces the stored snapshot.
func (m *Memory) Save(timers []timer.Timer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	snap := NewSnapshot(timers, time.Time{})
	m.snap = &snap
	m.saves++
	return nil
}

// Clear drops the stored snapshot.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.snap = nil
	return nil
}

// Saves returns how many successful saves happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Records returns the raw stored records, or nil when nothing is stored.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil
	}
	out := make([]Record, len(m.snap.Timers))
	copy(out, m.snap.Timers)
	return out
}
