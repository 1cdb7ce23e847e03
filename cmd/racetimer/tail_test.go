package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npratt/racetimer/internal/events"
)

func eventLine(t *testing.T, event events.Event) string {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return string(data)
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestPrintEventLine(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC)

	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "known event",
			line: eventLine(t, &events.TimerAddedEvent{
				BaseEvent: events.NewControllerEvent(events.EventTimerAdded, at),
				TimerID:   "0123456789abcdef",
				Duration:  90,
			}),
			want: "[09:30:15] timer 01234567 added (01:30)\n",
		},
		{
			name: "unknown event type",
			line: `{"type":"future.event","timestamp":"2024-06-01T09:30:15Z","source":"x"}`,
			want: "[09:30:15] future.event\n",
		},
		{
			name: "not json",
			line: "plain text",
			want: "plain text\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printEventLine(&buf, tt.line)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTailLast(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	path := writeLog(t,
		eventLine(t, &events.RaceStoppedEvent{BaseEvent: events.NewControllerEvent(events.EventRaceStopped, at), Timers: 1}),
		eventLine(t, &events.RaceResetEvent{BaseEvent: events.NewControllerEvent(events.EventRaceReset, at), Timers: 2}),
		eventLine(t, &events.TimersDeletedEvent{BaseEvent: events.NewControllerEvent(events.EventTimersDeleted, at), Count: 2}),
	)

	var buf bytes.Buffer
	require.NoError(t, tailLast(&buf, path, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[09:30:00] race reset (2 timers cleared)", lines[0])
	assert.Equal(t, "[09:30:00] deleted 2 timers", lines[1])
}

func TestTailLastMissingOrEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tailLast(&buf, filepath.Join(t.TempDir(), "missing.log"), 10))
	assert.Contains(t, buf.String(), "does not exist")

	empty := filepath.Join(t.TempDir(), "empty.log")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	buf.Reset()
	require.NoError(t, tailLast(&buf, empty, 10))
	assert.Equal(t, "No events yet\n", buf.String())
}

// syncBuffer guards a bytes.Buffer shared with the follow goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTailFollowPrintsAppendedEvents(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	path := writeLog(t, eventLine(t, &events.RaceResetEvent{BaseEvent: events.NewControllerEvent(events.EventRaceReset, at), Timers: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- tailFollow(ctx, out, path) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Following events")
	}, 2*time.Second, 10*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(eventLine(t, &events.RaceFinishedEvent{BaseEvent: events.NewControllerEvent(events.EventRaceFinished, at), Timers: 3}) + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "race finished: 3 timers expired together")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tailFollow did not return after cancel")
	}
	assert.NotContains(t, out.String(), "race reset", "existing lines are skipped")
}
