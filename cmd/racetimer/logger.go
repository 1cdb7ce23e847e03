package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/npratt/racetimer/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// debugLogName is the rotating log written while the terminal UI owns the screen.
const debugLogName = "racetimer-debug.log"

// TUILoggerResult contains the results of setting up logging for TUI mode.
type TUILoggerResult struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *TUILoggerResult) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// SetupTUILogger creates a logger that writes to a rotating file in logDir so
// log output does not corrupt the TUI display.
func SetupTUILogger(logDir string, level slog.Leveler, rotationCfg config.LogRotationConfig) (*TUILoggerResult, error) {
	debugLogPath := filepath.Join(logDir, debugLogName)

	debugLogWriter := &lumberjack.Logger{
		Filename:   debugLogPath,
		MaxSize:    rotationCfg.MaxSizeMB,
		MaxBackups: rotationCfg.MaxBackups,
		MaxAge:     rotationCfg.MaxAgeDays,
		Compress:   rotationCfg.Compress,
	}

	return &TUILoggerResult{
		Logger:   newLogger(debugLogWriter, level),
		LogFile:  debugLogWriter,
		FilePath: debugLogPath,
	}, nil
}

// newLogger builds the JSON logger used on stderr and in the debug log.
func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
