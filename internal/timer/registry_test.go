package timer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs makes ids predictable for assertions.
func sequentialIDs(r *Registry) {
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()

	tm, err := r.Add(30)
	require.NoError(t, err)
	assert.NotEmpty(t, tm.ID)
	assert.Equal(t, 30, tm.InitialTime)
	assert.Equal(t, 0, tm.CurrentTime)
	assert.Equal(t, PhaseIdle, tm.Phase)
	assert.Equal(t, 1, r.Len())

	zero, err := r.Add(0)
	require.NoError(t, err, "zero-length timers may exist")
	assert.NotEqual(t, tm.ID, zero.ID)
}

func TestRegistryAddNegative(t *testing.T) {
	r := NewRegistry()

	_, err := r.Add(-5)
	require.ErrorIs(t, err, ErrInvalidDuration)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryAddRegeneratesCollidingID(t *testing.T) {
	r := NewRegistry()
	ids := []string{"dup", "dup", "fresh"}
	r.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := r.Add(1)
	require.NoError(t, err)
	second, err := r.Add(2)
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	sequentialIDs(r)
	for _, d := range []int{10, 20, 30} {
		_, err := r.Add(d)
		require.NoError(t, err)
	}

	r.Remove("t2")

	got := r.Timers()
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)

	// index must follow the shifted slice
	tm, ok := r.Get("t3")
	require.True(t, ok)
	assert.Equal(t, 30, tm.InitialTime)
}

func TestRegistryRemoveAbsent(t *testing.T) {
	r := NewRegistry()
	sequentialIDs(r)
	_, _ = r.Add(10)

	r.Remove("missing")
	assert.Equal(t, 1, r.Len())

	r.RemoveAll()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("t1")
	assert.False(t, ok)
}

func TestRegistryTimersIsACopy(t *testing.T) {
	r := NewRegistry()
	sequentialIDs(r)
	_, _ = r.Add(10)

	got := r.Timers()
	got[0].InitialTime = 99

	tm, _ := r.Get("t1")
	assert.Equal(t, 10, tm.InitialTime)
}

func TestRegistryTick(t *testing.T) {
	r := NewRegistry()
	sequentialIDs(r)
	_, _ = r.Add(2)

	assert.False(t, r.Tick("t1"), "idle timers do not tick")
	tm, _ := r.Get("t1")
	assert.Equal(t, 0, tm.CurrentTime)

	r.SetPhase("t1", PhaseRunning)
	assert.False(t, r.Tick("t1"))
	assert.True(t, r.Tick("t1"))

	tm, _ = r.Get("t1")
	assert.Equal(t, 2, tm.CurrentTime)
	assert.Equal(t, PhaseExpired, tm.Phase)

	assert.False(t, r.Tick("t1"), "expired timers do not tick")
	tm, _ = r.Get("t1")
	assert.Equal(t, 2, tm.CurrentTime)
}

func TestRegistryTickZeroLengthExpires(t *testing.T) {
	r := NewRegistry()
	sequentialIDs(r)
	_, _ = r.Add(0)
	r.SetPhase("t1", PhaseRunning)

	assert.True(t, r.Tick("t1"))
	tm, _ := r.Get("t1")
	assert.Equal(t, 0, tm.CurrentTime)
	assert.Equal(t, PhaseExpired, tm.Phase)
}

func TestRegistryUpdate(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		newDuration int
		wantCurrent int
		wantErr     bool
	}{
		{"longer keeps elapsed", 5, 60, 5, false},
		{"shorter clamps elapsed", 30, 10, 10, false},
		{"zero allowed", 0, 0, 0, false},
		{"negative rejected", 5, -1, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			sequentialIDs(r)
			_, _ = r.Add(30)
			r.SetCurrent("t1", tt.current)

			err := r.Update("t1", tt.newDuration)
			tm, _ := r.Get("t1")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDuration)
				assert.Equal(t, 30, tm.InitialTime)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.newDuration, tm.InitialTime)
			}
			assert.Equal(t, tt.wantCurrent, tm.CurrentTime)
		})
	}
}

func TestRegistryUpdateExpiredTimer(t *testing.T) {
	tests := []struct {
		name        string
		newDuration int
		wantPhase   Phase
	}{
		{"longer reopens countdown", 60, PhaseIdle},
		{"same stays expired", 30, PhaseExpired},
		{"shorter stays expired", 10, PhaseExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			sequentialIDs(r)
			_, _ = r.Add(30)
			r.SetCurrent("t1", 30)
			r.SetPhase("t1", PhaseExpired)

			require.NoError(t, r.Update("t1", tt.newDuration))
			tm, _ := r.Get("t1")
			assert.Equal(t, tt.wantPhase, tm.Phase)
			assert.Equal(t, tm.Phase == PhaseExpired, tm.Done())
		})
	}
}

func TestRegistryUpdateAbsentIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Update("missing", 10))
}

func TestRegistryResets(t *testing.T) {
	setup := func() *Registry {
		r := NewRegistry()
		sequentialIDs(r)
		_, _ = r.Add(30)
		_, _ = r.Add(90)
		r.SetPhase("t1", PhaseExpired)
		r.SetCurrent("t1", 30)
		r.SetPhase("t2", PhasePaused)
		r.SetCurrent("t2", 45)
		r.SetPending("t2", 3*time.Second)
		return r
	}

	t.Run("reset all erases durations", func(t *testing.T) {
		r := setup()
		r.ResetAll()
		for _, tm := range r.Timers() {
			assert.Equal(t, 0, tm.InitialTime)
			assert.Equal(t, 0, tm.CurrentTime)
			assert.Equal(t, PhaseIdle, tm.Phase)
			assert.False(t, tm.Pending)
		}
		assert.Equal(t, 2, r.Len(), "ids survive a reset")
	})

	t.Run("reset to initial keeps durations", func(t *testing.T) {
		r := setup()
		r.ResetToInitialAll()
		got := r.Timers()
		assert.Equal(t, 30, got[0].InitialTime)
		assert.Equal(t, 90, got[1].InitialTime)
		for _, tm := range got {
			assert.Equal(t, 0, tm.CurrentTime)
			assert.Equal(t, PhaseIdle, tm.Phase)
			assert.False(t, tm.Pending)
			assert.Zero(t, tm.PendingDelay)
		}
	})
}

func TestRegistryPending(t *testing.T) {
	r := NewRegistry()
	sequentialIDs(r)
	_, _ = r.Add(30)

	r.SetPending("t1", -time.Second)
	tm, _ := r.Get("t1")
	assert.True(t, tm.Pending)
	assert.Zero(t, tm.PendingDelay, "negative delays clamp to zero")
	assert.True(t, tm.Waiting())

	r.ClearPending("t1")
	tm, _ = r.Get("t1")
	assert.False(t, tm.Pending)
	assert.False(t, tm.Waiting())
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	sequentialIDs(r)

	r.Replace([]Timer{
		{ID: "a", InitialTime: 10},
		{ID: "a", InitialTime: 20},
		{InitialTime: 30},
	})

	got := r.Timers()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 10, got[0].InitialTime)
	assert.Equal(t, "t1", got[1].ID)
}

func TestTimerDerived(t *testing.T) {
	tm := Timer{InitialTime: 40, CurrentTime: 10}
	assert.Equal(t, 30, tm.Remaining())
	assert.False(t, tm.Done())
	assert.InDelta(t, 0.25, tm.Progress(), 1e-9)

	zero := Timer{}
	assert.True(t, zero.Done())
	assert.Equal(t, 1.0, zero.Progress())
}
