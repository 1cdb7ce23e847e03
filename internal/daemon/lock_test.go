package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// deadPID is far above any pid_max, so no process can own it.
const deadPID = 999999999

func testOwner(dir string) Owner {
	return Owner{
		PID:    os.Getpid(),
		Store:  filepath.Join(dir, "timers.json"),
		Socket: filepath.Join(dir, "racetimer.sock"),
		Since:  time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func writeOwner(t *testing.T, path string, owner Owner) {
	t.Helper()
	l := NewInstanceLock(path)
	if err := l.Acquire(owner); err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	// Drop the flock but leave the record, as a crashed process would.
	unlockAndClose(l.file)
}

func TestInstanceLock_AcquireRecordsOwner(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run", "racetimer.pid")
	l := NewInstanceLock(path)
	if l.Path() != path {
		t.Errorf("Path() = %q, want %q", l.Path(), path)
	}

	owner := testOwner(dir)
	if err := l.Acquire(owner); err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	got, err := l.Owner()
	if err != nil {
		t.Fatalf("Owner() error: %v", err)
	}
	if got.PID != owner.PID || got.Store != owner.Store || got.Socket != owner.Socket || !got.Since.Equal(owner.Since) {
		t.Errorf("Owner() = %+v, want %+v", got, owner)
	}
	if !l.Held() {
		t.Error("Held() should be true while this process owns the lock")
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file should be gone after Release()")
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error: %v", err)
	}
}

func TestInstanceLock_SecondInstanceNamesStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "racetimer.pid")

	first := NewInstanceLock(path)
	owner := testOwner(dir)
	if err := first.Acquire(owner); err != nil {
		t.Fatalf("first Acquire() error: %v", err)
	}
	defer func() { _ = first.Release() }()

	second := NewInstanceLock(path)
	err := second.Acquire(testOwner(t.TempDir()))
	if err == nil {
		_ = second.Release()
		t.Fatal("second Acquire() should fail while the lock is held")
	}
	if !errors.Is(err, ErrLocked) {
		t.Errorf("error = %v, want ErrLocked", err)
	}
	if !strings.Contains(err.Error(), owner.Store) {
		t.Errorf("error = %q, want it to name the store %s", err, owner.Store)
	}

	// The losing attempt must not overwrite the holder's record.
	got, err := first.Owner()
	if err != nil || got.Store != owner.Store {
		t.Errorf("Owner() = %+v, %v; want store %s", got, err, owner.Store)
	}
}

func TestInstanceLock_ReacquireAfterRelease(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "racetimer.pid")

	first := NewInstanceLock(path)
	if err := first.Acquire(testOwner(dir)); err != nil {
		t.Fatal(err)
	}
	_ = first.Release()

	second := NewInstanceLock(path)
	if err := second.Acquire(testOwner(dir)); err != nil {
		t.Fatalf("Acquire() after release: %v", err)
	}
	_ = second.Release()
}

func TestInstanceLock_Owner(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantErr bool
		wantPID int
	}{
		{name: "missing file", wantErr: true},
		{name: "garbage", content: ptr("racing\n"), wantErr: true},
		{name: "record", content: ptr(`{"pid":999999999,"store":"/p/timers.json"}`), wantPID: deadPID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "racetimer.pid")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			l := NewInstanceLock(path)
			got, err := l.Owner()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Owner() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.PID != tt.wantPID {
				t.Errorf("PID = %d, want %d", got.PID, tt.wantPID)
			}
			if l.Held() {
				t.Error("Held() = true for a record without a live owner")
			}
		})
	}
}

func TestIsProcessRunning(t *testing.T) {
	if !IsProcessRunning(os.Getpid()) {
		t.Error("current process should be running")
	}
	for _, pid := range []int{0, -1, deadPID} {
		if IsProcessRunning(pid) {
			t.Errorf("IsProcessRunning(%d) = true", pid)
		}
	}
}

func TestInstanceLock_CleanupStale(t *testing.T) {
	tests := []struct {
		name     string
		pid      int
		wantGone bool
	}{
		{name: "dead owner", pid: deadPID, wantGone: true},
		{name: "live owner", pid: os.Getpid(), wantGone: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "racetimer.pid")
			owner := testOwner(dir)
			owner.PID = tt.pid
			writeOwner(t, path, owner)
			if err := os.WriteFile(owner.Socket, nil, 0644); err != nil {
				t.Fatal(err)
			}

			NewInstanceLock(path).CleanupStale()

			_, err := os.Stat(path)
			if gone := os.IsNotExist(err); gone != tt.wantGone {
				t.Errorf("lock file removed = %v, want %v", gone, tt.wantGone)
			}
			_, err = os.Stat(owner.Socket)
			if gone := os.IsNotExist(err); gone != tt.wantGone {
				t.Errorf("owner socket removed = %v, want %v", gone, tt.wantGone)
			}
		})
	}
}

func TestInstanceLock_CleanupStaleUnreadableRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "racetimer.pid")
	if err := os.WriteFile(path, []byte("4242\n"), 0644); err != nil {
		t.Fatal(err)
	}

	NewInstanceLock(path).CleanupStale()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("unreadable lock file should be removed")
	}
}

func ptr(s string) *string { return &s }
