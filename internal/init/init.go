// Package initcmd writes a starter racetimer config file.
package initcmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/npratt/racetimer/internal/config"
)

// ErrChanged is returned when the target file differs from the defaults and
// Force was not given.
var ErrChanged = errors.New("config file has changes (use --force to overwrite)")

// Options configures the init command behavior.
type Options struct {
	DryRun bool
	Force  bool
	Global bool      // write the user-wide file instead of the project one
	Dir    string    // project root for the project file; defaults to the working directory
	Writer io.Writer // defaults to os.Stdout
}

// Result describes what happened to the config file.
type Result struct {
	Path        string
	Created     bool
	Overwritten bool
	Unchanged   bool
	BackupPath  string
}

// Run writes the default configuration to the project or global config path.
// An existing file that differs is only replaced with Force, and the old
// content is kept as a timestamped backup.
func Run(opts Options) (*Result, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	w := opts.Writer

	path, err := targetPath(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Path: path}

	content, err := config.DefaultYAML()
	if err != nil {
		return nil, err
	}

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if opts.DryRun {
			_, _ = fmt.Fprintf(w, "Would create: %s\n", path)
			_, _ = fmt.Fprintln(w, "--- BEGIN FILE ---")
			_, _ = w.Write(content)
			_, _ = fmt.Fprintln(w, "--- END FILE ---")
			result.Created = true
			return result, nil
		}
		if err := writeFile(path, content); err != nil {
			return result, err
		}
		_, _ = fmt.Fprintf(w, "Created: %s\n", path)
		result.Created = true
		return result, nil
	case err != nil:
		return result, fmt.Errorf("read %s: %w", path, err)
	}

	if bytes.Equal(existing, content) {
		_, _ = fmt.Fprintf(w, "Already up to date: %s\n", path)
		result.Unchanged = true
		return result, nil
	}

	diff := LineDiff("existing", "default", string(existing), string(content))
	if opts.DryRun {
		_, _ = fmt.Fprintf(w, "Would overwrite (has changes): %s\n", path)
		_, _ = fmt.Fprint(w, diff)
		return result, nil
	}
	if !opts.Force {
		_, _ = fmt.Fprintf(w, "%s:\n", path)
		_, _ = fmt.Fprint(w, diff)
		return result, ErrChanged
	}

	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, existing, 0644); err != nil {
		return result, fmt.Errorf("write backup: %w", err)
	}
	if err := writeFile(path, content); err != nil {
		return result, err
	}
	_, _ = fmt.Fprintf(w, "Overwritten: %s (previous saved to %s)\n", path, backup)
	result.Overwritten = true
	result.BackupPath = backup
	return result, nil
}

// targetPath returns the project config path, or the XDG config path with Global.
func targetPath(opts Options) (string, error) {
	if opts.Global {
		dir := os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
		return filepath.Join(dir, config.GlobalConfigDir, config.GlobalConfigFile), nil
	}

	root := opts.Dir
	if root == "" {
		var err error
		if root, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}
	return filepath.Join(root, config.ProjectConfigDir, config.ProjectConfigFile), nil
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
