package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sink consumes events from the router.
type Sink interface {
	Start(ctx context.Context, events <-chan Event) error
	Stop() error
}

// LogSink writes events to a JSON lines file, one record per event.
// Tick events are skipped unless IncludeTicks is set.
type LogSink struct {
	path         string
	file         *os.File
	encoder      *json.Encoder
	mu           sync.Mutex
	done         chan struct{}
	logger       *slog.Logger
	includeTicks bool
}

// LogSinkOption configures a LogSink.
type LogSinkOption func(*LogSink)

// WithTicks records per-second tick events as well.
func WithTicks() LogSinkOption {
	return func(s *LogSink) {
		s.includeTicks = true
	}
}

// WithSinkLogger sets the logger used for write failures.
func WithSinkLogger(logger *slog.Logger) LogSinkOption {
	return func(s *LogSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewLogSink creates a new LogSink that writes to the specified path.
func NewLogSink(path string, opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		path:   path,
		done:   make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the log file and begins processing events.
// It runs until the context is canceled or the events channel is closed.
func (s *LogSink) Start(ctx context.Context, events <-chan Event) error {
	if err := s.openFile(); err != nil {
		return err
	}

	go s.run(ctx, events)
	return nil
}

func (s *LogSink) openFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	if err := s.rotateExistingLog(); err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	s.mu.Lock()
	s.file = file
	s.encoder = json.NewEncoder(file)
	s.mu.Unlock()

	return nil
}

// rotateExistingLog renames a non-empty log from a previous run with a
// timestamp suffix so `events --follow` always tails a fresh file.
func (s *LogSink) rotateExistingLog() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}

	if info.Size() == 0 {
		return nil
	}

	timestamp := time.Now().Format("2006-01-02T15-04-05")
	bakPath := fmt.Sprintf("%s.%s.bak", s.path, timestamp)

	if err := os.Rename(s.path, bakPath); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}

	return nil
}

func (s *LogSink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type() == EventTimerTick && !s.includeTicks {
				continue
			}
			s.write(event)
		}
	}
}

func (s *LogSink) write(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return
	}

	if err := s.encoder.Encode(event); err != nil {
		s.logger.Warn("log sink: failed to write event",
			"event_type", event.Type(),
			"error", err)
	}
}

// Stop waits for the run goroutine to finish and closes the log file.
func (s *LogSink) Stop() error {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		s.encoder = nil
		return err
	}
	return nil
}

// Path returns the log file path.
func (s *LogSink) Path() string {
	return s.path
}
