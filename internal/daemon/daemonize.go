package daemon

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"syscall"
	"time"
)

const (
	// daemonEnvVar marks the re-executed child that keeps running detached.
	daemonEnvVar = "RACETIMER_DAEMONIZED"

	socketWaitTimeout   = 2 * time.Second
	socketCheckInterval = 50 * time.Millisecond
)

// Daemonize re-executes the current command as a detached process.
// The parent gets shouldExit=true once the child's socket answers (or the
// wait times out); the child gets shouldExit=false and carries on.
func Daemonize(socketPath string, out io.Writer) (shouldExit bool, pid int, err error) {
	if IsDaemonized() {
		return false, os.Getpid(), nil
	}

	executable, err := os.Executable()
	if err != nil {
		return false, 0, fmt.Errorf("get executable path: %w", err)
	}

	cmd := exec.Command(executable, os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonEnvVar+"=1")
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return false, 0, fmt.Errorf("start racetimer: %w", err)
	}

	childPID := cmd.Process.Pid
	if err := waitForSocketReady(socketPath, socketWaitTimeout); err != nil {
		_, _ = fmt.Fprintf(out, "racetimer started (pid %d), socket not yet available\n", childPID)
	} else {
		_, _ = fmt.Fprintf(out, "racetimer started (pid %d)\n", childPID)
	}

	return true, childPID, nil
}

// IsDaemonized reports whether this process is the detached child.
func IsDaemonized() bool {
	return os.Getenv(daemonEnvVar) == "1"
}

// waitForSocketReady waits for the socket to accept connections.
func waitForSocketReady(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("unix", socketPath, socketCheckInterval)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(socketCheckInterval)
	}
	return fmt.Errorf("socket not available after %v", timeout)
}
