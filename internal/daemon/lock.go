package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrLocked is returned when another racetimer holds the instance lock.
var ErrLocked = errors.New("racetimer already running")

// Owner is the record kept in the lock file by the process holding it.
type Owner struct {
	PID    int       `json:"pid"`
	Store  string    `json:"store"`
	Socket string    `json:"socket"`
	Since  time.Time `json:"since"`
}

// InstanceLock is a flock-guarded file that makes one process the only
// writer of a timer snapshot and the only server on its socket.
type InstanceLock struct {
	path string
	file *os.File
}

// NewInstanceLock returns a lock backed by the file at path.
func NewInstanceLock(path string) *InstanceLock {
	return &InstanceLock{path: path}
}

// Path returns the lock file path.
func (l *InstanceLock) Path() string {
	return l.path
}

// Acquire takes the lock and records owner in the lock file. When another
// process holds it, the error wraps ErrLocked and names that owner's store.
func (l *InstanceLock) Acquire(owner Owner) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	// Non-blocking: a second instance fails fast instead of queueing.
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return l.lockedError()
		}
		return fmt.Errorf("lock %s: %w", l.path, err)
	}

	data, err := json.Marshal(owner)
	if err != nil {
		unlockAndClose(file)
		return fmt.Errorf("marshal lock owner: %w", err)
	}

	// Replace whatever a previous owner left behind.
	if err := file.Truncate(0); err != nil {
		unlockAndClose(file)
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.WriteAt(append(data, '\n'), 0); err != nil {
		unlockAndClose(file)
		return fmt.Errorf("write lock owner: %w", err)
	}
	if err := file.Sync(); err != nil {
		unlockAndClose(file)
		return fmt.Errorf("sync lock file: %w", err)
	}

	l.file = file
	return nil
}

func (l *InstanceLock) lockedError() error {
	owner, err := l.Owner()
	if err != nil || owner.PID == 0 {
		return fmt.Errorf("%w (%s locked)", ErrLocked, l.path)
	}
	return fmt.Errorf("%w (pid %d, store %s)", ErrLocked, owner.PID, owner.Store)
}

// Owner reads the record left by the current or last holder.
func (l *InstanceLock) Owner() (Owner, error) {
	var owner Owner
	data, err := os.ReadFile(l.path)
	if err != nil {
		return owner, err
	}
	if err := json.Unmarshal(data, &owner); err != nil {
		return owner, fmt.Errorf("parse lock file: %w", err)
	}
	return owner, nil
}

// Held reports whether the lock file names a live process.
func (l *InstanceLock) Held() bool {
	owner, err := l.Owner()
	if err != nil {
		return false
	}
	return IsProcessRunning(owner.PID)
}

// Release unlocks and removes the lock file. Safe to call more than once.
func (l *InstanceLock) Release() error {
	if l.file != nil {
		unlockAndClose(l.file)
		l.file = nil
	}
	// Already gone is fine.
	_ = os.Remove(l.path)
	return nil
}

// CleanupStale removes the lock file and the socket of an owner that exited
// without releasing them. A live owner is left alone.
func (l *InstanceLock) CleanupStale() {
	owner, err := l.Owner()
	if err == nil && IsProcessRunning(owner.PID) {
		return
	}
	_ = os.Remove(l.path)
	if owner.Socket != "" {
		_ = os.Remove(owner.Socket)
	}
}

func unlockAndClose(file *os.File) {
	_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	_ = file.Close()
}

// IsProcessRunning checks if the given PID represents a running process.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, FindProcess always succeeds; send signal 0 to check existence.
	return process.Signal(syscall.Signal(0)) == nil
}
