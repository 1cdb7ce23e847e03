package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/npratt/racetimer/internal/daemon"
	"github.com/npratt/racetimer/internal/events"
)

const (
	followPoll   = 100 * time.Millisecond
	fileWaitPoll = 500 * time.Millisecond
)

func newEventsCmd() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "View recent events from the event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath, err := eventLogPath(cmd)
			if err != nil {
				return err
			}

			if viper.GetBool(FlagFollow) {
				return tailFollow(cmd.Context(), cmd.OutOrStdout(), logPath)
			}
			return tailLast(cmd.OutOrStdout(), logPath, viper.GetInt(FlagCount))
		},
	}

	eventsCmd.Flags().Bool(FlagFollow, false, "Follow the event stream (like tail -f)")
	eventsCmd.Flags().Int(FlagCount, 20, "Number of recent events to show")
	eventsCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})
	return eventsCmd
}

// eventLogPath prefers an explicit --log-file, then the log of the running
// racetimer, then the configured path.
func eventLogPath(cmd *cobra.Command) (string, error) {
	if !cmd.Flags().Changed(FlagLogFile) {
		if info, err := daemon.FindDaemonInfo(""); err == nil && info.LogPath != "" {
			return info.LogPath, nil
		}
	}
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return "", err
	}
	return cfg.Paths.Log, nil
}

// tailLast prints the last n events from the log file.
func tailLast(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "No events yet (log file does not exist)")
			return nil
		}
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	if len(lines) == 0 {
		fmt.Fprintln(w, "No events yet")
		return nil
	}

	start := 0
	if n > 0 && len(lines) > n {
		start = len(lines) - n
	}
	for _, line := range lines[start:] {
		printEventLine(w, line)
	}
	return nil
}

// waitForFile waits for a file to be created and returns the opened file.
func waitForFile(ctx context.Context, path string) (*os.File, error) {
	ticker := time.NewTicker(fileWaitPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			file, err := os.Open(path)
			if err == nil {
				return file, nil
			}
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("open file: %w", err)
			}
		}
	}
}

// tailFollow prints events appended to the log until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("open log file: %w", err)
		}
		fmt.Fprintln(w, "Waiting for log file to be created...")
		file, err = waitForFile(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	fmt.Fprintln(w, "Following events (Ctrl+C to stop)...")
	reader := bufio.NewReader(file)
	var partial string
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		chunk, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				partial += chunk
				time.Sleep(followPoll)
				continue
			}
			return fmt.Errorf("read log: %w", err)
		}
		line := strings.TrimSuffix(partial+chunk, "\n")
		partial = ""
		if line != "" {
			printEventLine(w, line)
		}
	}
}

// printEventLine prints one JSONL record the way the board shows events.
// Lines that are not events are printed as-is.
func printEventLine(w io.Writer, line string) {
	event, err := events.Decode([]byte(line))
	if err != nil {
		fmt.Fprintln(w, line)
		return
	}
	fmt.Fprintln(w, events.FormatWithTimestamp(event))
}
