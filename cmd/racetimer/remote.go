package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/npratt/racetimer/internal/config"
	"github.com/npratt/racetimer/internal/daemon"
	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/timer"
)

// getDaemonClient connects to the socket named by --socket-path, or the one
// recorded in daemon.json, or the configured default under the project root.
func getDaemonClient() (*daemon.Client, error) {
	if path := viper.GetString(FlagSocketPath); path != "" {
		return daemon.NewClient(path), nil
	}
	if info, err := daemon.FindDaemonInfo(""); err == nil {
		return daemon.NewClient(info.SocketPath), nil
	}

	paths, err := daemon.ResolvePaths(config.Default().Paths, daemon.FindProjectRoot(""))
	if err != nil {
		return nil, err
	}
	return daemon.NewClient(paths.Socket), nil
}

// intentCmd builds a command that sends one argument-free intent and prints
// the resulting board.
func intentCmd(use, short string, call func(*daemon.Client) (*daemon.StatusResponse, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getDaemonClient()
			if err != nil {
				return err
			}
			status, err := call(client)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func remoteCommands() []*cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add <duration>...",
		Short: "Add one timer per duration (90, 1:30, 1m30s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			durations, err := parseDurations(args)
			if err != nil {
				return err
			}
			client, err := getDaemonClient()
			if err != nil {
				return err
			}
			status, err := client.Add(durations...)
			if err != nil {
				return err
			}
			for _, id := range status.Added {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", id)
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id> <duration>",
		Short: "Change a timer's duration (id may be a unique prefix)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := timer.ParseDuration(args[1])
			if err != nil {
				return err
			}
			client, err := getDaemonClient()
			if err != nil {
				return err
			}
			status, err := client.Update(args[0], seconds)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the timers and race state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getDaemonClient()
			if err != nil {
				return err
			}
			status, err := client.Status()
			if err != nil {
				return err
			}

			if viper.GetBool(FlagJSON) {
				data, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal status: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uptime: %s\n", status.Uptime)
			fmt.Fprintf(cmd.OutOrStdout(), "Started: %s\n", status.StartTime)
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
	statusCmd.Flags().Bool(FlagJSON, false, "Output status as JSON")
	_ = viper.BindPFlag(FlagJSON, statusCmd.Flags().Lookup(FlagJSON))

	shutdownCmd := &cobra.Command{
		Use:   "shutdown",
		Short: "Stop the running racetimer process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getDaemonClient()
			if err != nil {
				return err
			}
			if err := client.Shutdown(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Shutdown requested")
			return nil
		},
	}

	return []*cobra.Command{
		addCmd,
		intentCmd("start", "Start every timer so they all finish together", (*daemon.Client).Start),
		intentCmd("pause", "Freeze running and waiting timers", (*daemon.Client).Pause),
		intentCmd("resume", "Continue a paused race", (*daemon.Client).Resume),
		intentCmd("stop", "Stop every timer and zero elapsed time", (*daemon.Client).Stop),
		intentCmd("reset", "Clear elapsed and configured time of every timer", (*daemon.Client).Reset),
		intentCmd("restart", "Restart the race from the configured durations", (*daemon.Client).Restart),
		updateCmd,
		intentCmd("delete-all", "Remove every timer", (*daemon.Client).DeleteAll),
		statusCmd,
		shutdownCmd,
	}
}

// parseDurations converts each argument to whole seconds. Zero is refused
// because a new timer must count something.
func parseDurations(args []string) ([]int, error) {
	durations := make([]int, 0, len(args))
	for _, arg := range args {
		seconds, err := timer.ParseDuration(arg)
		if err != nil {
			return nil, err
		}
		if seconds == 0 {
			return nil, fmt.Errorf("%w: %q is zero", timer.ErrInvalidDuration, arg)
		}
		durations = append(durations, seconds)
	}
	return durations, nil
}

// printStatus renders the race state and one line per timer.
func printStatus(w io.Writer, status *daemon.StatusResponse) {
	race := status.Race
	running, waiting, paused, expired := race.Counts()
	fmt.Fprintf(w, "Race: %s (%d timers, %d running, %d waiting, %d paused, %d expired)\n",
		race.State(), len(race.Timers), running, waiting, paused, expired)

	for _, t := range race.Timers {
		phase := string(t.Phase)
		if t.Waiting() {
			phase = "waiting"
		}
		fmt.Fprintf(w, "  %s  %s / %s  %s\n",
			events.ShortID(t.ID),
			timer.FormatClock(t.Remaining()),
			timer.FormatClock(t.InitialTime),
			phase,
		)
	}
}
