package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/npratt/racetimer/internal/timer"
)

// File stores the snapshot in a single file, written atomically.
type File struct {
	path   string
	codec  Codec
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewFile creates a file store at path using the given encoding.
func NewFile(path string, format Format, logger *slog.Logger) (*File, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &File{
		path:   path,
		codec:  codec,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Path returns the snapshot file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the snapshot. A missing file yields no timers. A corrupt or
// incompatible file is moved aside to <path>.backup and also yields no
// timers; only I/O failures are reported as errors.
func (f *File) Load() ([]timer.Timer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []timer.Timer{}, nil
		}
		return []timer.Timer{}, fmt.Errorf("%w: read %s: %v", ErrUnavailable, f.path, err)
	}

	var snap Snapshot
	if err := f.codec.Unmarshal(data, &snap); err != nil {
		f.discard("snapshot corrupted", "error", err)
		return []timer.Timer{}, nil
	}

	if snap.Version != CurrentVersion {
		f.discard("incompatible snapshot version",
			"file_version", snap.Version,
			"current_version", CurrentVersion)
		return []timer.Timer{}, nil
	}

	return snap.Restore(), nil
}

// Save overwrites the snapshot using a temp file and rename.
func (f *File) Save(timers []timer.Timer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.codec.Marshal(NewSnapshot(timers, f.now()))
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", ErrUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("%w: create store directory: %v", ErrUnavailable, err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, tmpPath, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, tmpPath, err)
	}
	return nil
}

// Clear removes the snapshot file. A missing file is not an error.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %v", ErrUnavailable, f.path, err)
	}
	return nil
}

// discard moves an unreadable snapshot aside. Must be called with f.mu held.
func (f *File) discard(reason string, attrs ...any) {
	backupPath := f.path + ".backup"
	attrs = append(attrs, "path", f.path)
	if err := os.Rename(f.path, backupPath); err != nil {
		f.logger.Warn(reason+", failed to backup", append(attrs, "backup_error", err)...)
		return
	}
	f.logger.Warn(reason+", backed up and starting fresh", append(attrs, "backup", backupPath)...)
}
