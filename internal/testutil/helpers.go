package testutil

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile writes content to a file in the given directory.
// It creates parent directories as needed and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ReadFile reads a file and returns its contents.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// FileExists checks if a file exists.
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

// SocketPath returns a unique path short enough for sun_path limits
// (104 bytes on macOS, 108 on Linux). t.TempDir paths are often too long.
func SocketPath(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp("", "rt")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	_ = f.Close()
	_ = os.Remove(path)
	t.Cleanup(func() { _ = os.Remove(path) })
	return path
}

// WaitForSocket waits until a Unix socket accepts connections.
func WaitForSocket(t *testing.T, socketPath string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("unix", socketPath, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("socket %s did not become ready within %v", socketPath, timeout)
}

// ProjectDir creates a project root containing an empty .racetimer state
// directory and returns the root.
func ProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".racetimer"), 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}
