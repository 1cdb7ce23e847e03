// Package daemon exposes the lifecycle controller over a Unix socket so a
// running race can be driven from other terminals.
package daemon

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/npratt/racetimer/internal/config"
	"github.com/npratt/racetimer/internal/controller"
	"github.com/npratt/racetimer/internal/timer"
)

// Controller is the part of the lifecycle controller the daemon drives.
type Controller interface {
	AddAll(seconds ...int) ([]timer.Timer, error)
	StartAll()
	PauseAll()
	ResumeAll()
	StopAll()
	ResetAll()
	ResetToInitialAndStart()
	UpdateDuration(id string, seconds int) error
	DeleteAll()
	Snapshot() controller.Snapshot
}

// Daemon serves controller intents over a Unix socket.
type Daemon struct {
	config     *config.Config
	controller Controller
	sockPath   string
	startTime  time.Time
	logger     *slog.Logger
	onShutdown func()

	listener net.Listener
	running  bool
	mu       sync.RWMutex
}

// New creates a new Daemon with the given configuration and controller.
func New(cfg *config.Config, ctrl Controller, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		config:     cfg,
		controller: ctrl,
		sockPath:   cfg.Paths.Socket,
		logger:     logger,
	}
}

// OnShutdown sets the function run when a client sends the shutdown method.
// Without one, shutdown only closes the socket.
func (d *Daemon) OnShutdown(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onShutdown = fn
}

// Running returns whether the daemon is currently running.
func (d *Daemon) Running() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

// StartTime returns when the daemon was started.
func (d *Daemon) StartTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.startTime
}

// SocketPath returns the Unix socket path.
func (d *Daemon) SocketPath() string {
	return d.sockPath
}
