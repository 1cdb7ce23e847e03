// Package shutdown runs a blocking component until it finishes or the
// process receives SIGINT/SIGTERM, then gives cleanup a bounded window.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Run starts runner and blocks until it returns or a termination signal
// arrives. On a signal the runner's context is cancelled. cleanup always
// runs afterwards with a context bounded by timeout.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	cleanup func(ctx context.Context) error,
) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	return run(ctx, logger, timeout, sigChan, runner, cleanup)
}

func run(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	signals <-chan os.Signal,
	runner func(ctx context.Context) error,
	cleanup func(ctx context.Context) error,
) error {
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	var runErr error
	select {
	case sig := <-signals:
		logger.Info("received signal, initiating shutdown", "signal", sig)
		runCancel()

		select {
		case runErr = <-runDone:
		case <-time.After(timeout):
			logger.Warn("runner did not stop within timeout", "timeout", timeout)
		}

	case runErr = <-runDone:
	}

	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if cleanup != nil {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := cleanup(cleanupCtx); err != nil {
			logger.Error("shutdown cleanup failed", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return runErr
}
