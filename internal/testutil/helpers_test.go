package testutil

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteFile_CreatesSubdirectories(t *testing.T) {
	dir := t.TempDir()

	path := WriteFile(t, dir, "a/b/timers.json", "{}")

	if path != filepath.Join(dir, "a", "b", "timers.json") {
		t.Errorf("path = %q", path)
	}
	if got := ReadFile(t, path); got != "{}" {
		t.Errorf("content = %q, want {}", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, "exists.txt", "x")

	if !FileExists(t, path) {
		t.Error("FileExists should return true for existing file")
	}
	if FileExists(t, filepath.Join(dir, "missing.txt")) {
		t.Error("FileExists should return false for missing file")
	}
}

func TestSocketPath(t *testing.T) {
	a := SocketPath(t)
	b := SocketPath(t)

	if a == b {
		t.Error("paths should be unique")
	}
	if len(a) >= 104 {
		t.Errorf("path too long for a socket: %d bytes", len(a))
	}
	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Error("path should not exist yet")
	}
}

func TestWaitForSocket(t *testing.T) {
	path := SocketPath(t)

	listeners := make(chan net.Listener, 1)
	go func() {
		time.Sleep(50 * time.Millisecond)
		l, err := net.Listen("unix", path)
		if err != nil {
			close(listeners)
			return
		}
		listeners <- l
	}()

	WaitForSocket(t, path, 2*time.Second)
	if l, ok := <-listeners; ok {
		_ = l.Close()
	}
}

func TestProjectDir(t *testing.T) {
	dir := ProjectDir(t)

	info, err := os.Stat(filepath.Join(dir, ".racetimer"))
	if err != nil {
		t.Fatalf(".racetimer should exist: %v", err)
	}
	if !info.IsDir() {
		t.Error(".racetimer should be a directory")
	}
}
