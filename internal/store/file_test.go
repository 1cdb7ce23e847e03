package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npratt/racetimer/internal/testutil"
	"github.com/npratt/racetimer/internal/timer"
)

func sampleTimers() []timer.Timer {
	return []timer.Timer{
		{ID: "a", InitialTime: 30, CurrentTime: 12, Phase: timer.PhaseRunning},
		{ID: "b", InitialTime: 90, CurrentTime: 0, Phase: timer.PhaseIdle, Pending: true},
		{ID: "c", InitialTime: 45, CurrentTime: 45, Phase: timer.PhaseExpired},
		{ID: "d", InitialTime: 10, CurrentTime: 3, Phase: timer.PhasePaused},
	}
}

func TestFileRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatCBOR} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "timers."+string(format))
			s, err := NewFile(path, format, nil)
			require.NoError(t, err)

			require.NoError(t, s.Save(sampleTimers()))

			got, err := s.Load()
			require.NoError(t, err)
			require.Len(t, got, 4)

			for i, want := range sampleTimers() {
				assert.Equal(t, want.ID, got[i].ID)
				assert.Equal(t, want.InitialTime, got[i].InitialTime)
				assert.Equal(t, want.CurrentTime, got[i].CurrentTime)
				assert.Equal(t, timer.PhaseIdle, got[i].Phase, "timers reload idle")
				assert.False(t, got[i].Pending)
			}
		})
	}
}

func TestFileLoadMissing(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "timers.json"), FormatJSON, nil)
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFileLoadCorruptBacksUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, err := NewFile(path, FormatJSON, nil)
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = os.Stat(path + ".backup")
	assert.NoError(t, err, "corrupt snapshot should be moved aside")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileLoadIncompatibleVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "timers": [{"id": "x", "initial_time": 5}]}`), 0644))

	s, err := NewFile(path, FormatJSON, nil)
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.FileExists(t, path+".backup")
}

func TestFileLoadClampsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.json")
	content := `{"version": 1, "timers": [
		{"id": "neg", "initial_time": -4, "current_time": -1},
		{"id": "over", "initial_time": 10, "current_time": 99, "is_running": true}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := NewFile(path, FormatJSON, nil)
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].InitialTime)
	assert.Equal(t, 0, got[0].CurrentTime)
	assert.Equal(t, 10, got[1].CurrentTime)
	assert.Equal(t, timer.PhaseIdle, got[1].Phase)
}

func TestFileClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.json")
	s, err := NewFile(path, FormatJSON, nil)
	require.NoError(t, err)

	require.NoError(t, s.Clear(), "clearing a missing snapshot is fine")

	require.NoError(t, s.Save(sampleTimers()))
	require.NoError(t, s.Clear())
	assert.NoFileExists(t, path)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileSaveUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// parent "directory" is a regular file
	s, err := NewFile(filepath.Join(blocker, "timers.json"), FormatJSON, nil)
	require.NoError(t, err)

	err = s.Save(sampleTimers())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFileSnapshotFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timers.json")
	s, err := NewFile(path, FormatJSON, nil)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleTimers()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap Snapshot
	codec, _ := CodecFor(FormatJSON)
	require.NoError(t, codec.Unmarshal(data, &snap))

	assert.Equal(t, CurrentVersion, snap.Version)
	assert.True(t, snap.Timers[0].IsRunning)
	assert.True(t, snap.Timers[1].IsRunning, "waiting timers count as running")
	assert.False(t, snap.Timers[2].IsRunning)
	assert.True(t, snap.Timers[3].IsPaused)
}

func TestCodecFor(t *testing.T) {
	for _, f := range []Format{"", "json", "JSON", "yaml", "yml", "cbor"} {
		_, err := CodecFor(f)
		assert.NoError(t, err, f)
	}
	_, err := CodecFor("xml")
	assert.Error(t, err)

	_, err = NewFile("x", "xml", nil)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/timers.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("timers.YML"))
	assert.Equal(t, FormatCBOR, FormatFromPath("timers.cbor"))
	assert.Equal(t, FormatJSON, FormatFromPath("timers.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("timers"))
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	got, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, m.Save(sampleTimers()))
	assert.Equal(t, 1, m.Saves())
	assert.Len(t, m.Records(), 4)

	got, err = m.Load()
	require.NoError(t, err)
	assert.Len(t, got, 4)

	require.NoError(t, m.Clear())
	assert.Nil(t, m.Records())

	m.Err = ErrUnavailable
	assert.ErrorIs(t, m.Save(nil), ErrUnavailable)
	got, err = m.Load()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, got)
}

func TestFileLoadHandWrittenSnapshots(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		format  Format
		content string
	}{
		{"json", "timers.json", FormatJSON, testutil.SampleSnapshotJSON},
		{"yaml", "timers.yaml", FormatYAML, testutil.SampleSnapshotYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), tt.file, tt.content)
			s, err := NewFile(path, tt.format, nil)
			require.NoError(t, err)

			got, err := s.Load()
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, testutil.SampleTimerA, got[0].ID)
			assert.Equal(t, 30, got[0].InitialTime)
			assert.Equal(t, testutil.SampleTimerB, got[1].ID)
			assert.Equal(t, 12, got[1].CurrentTime, "elapsed time survives a reload")
			assert.Equal(t, timer.PhaseIdle, got[1].Phase, "paused timers reload idle")
		})
	}
}
