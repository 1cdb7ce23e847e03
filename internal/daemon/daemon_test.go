package daemon

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/npratt/racetimer/internal/config"
	"github.com/npratt/racetimer/internal/controller"
)

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.Socket = "/tmp/rt-test.sock"
	ctrl := controller.New(cfg, nil, nil, nil, nil)
	defer ctrl.Close()

	d := New(cfg, ctrl, nil)

	if d.SocketPath() != cfg.Paths.Socket {
		t.Errorf("SocketPath() = %q, want %q", d.SocketPath(), cfg.Paths.Socket)
	}
	if d.logger == nil {
		t.Error("nil logger should fall back to slog.Default")
	}
	if d.Running() {
		t.Error("daemon should not be running before Start")
	}
	if !d.StartTime().IsZero() {
		t.Errorf("StartTime() = %v before Start, want zero", d.StartTime())
	}
}

func TestNew_KeepsLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := New(config.Default(), nil, logger)
	if d.logger != logger {
		t.Error("logger not kept")
	}
}

func TestOnShutdown_ConcurrentAccess(t *testing.T) {
	d := New(config.Default(), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.OnShutdown(func() {})
		}()
		go func() {
			defer wg.Done()
			_ = d.Running()
			_ = d.StartTime()
		}()
	}
	wg.Wait()
}
