package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "dev"

func main() {
	logLevel := &slog.LevelVar{}
	logger := newLogger(os.Stderr, logLevel)

	viper.SetEnvPrefix("RACETIMER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "racetimer",
		Short: "Countdown timers that always finish together",
		Long: `racetimer runs a set of countdown timers of different lengths and staggers
their starts so that every timer reaches zero at the same instant.

Run "racetimer run" to open the terminal UI (or run headless), then drive the
race from the UI or from any other terminal with the remote commands.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if viper.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}
		},
	}

	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .racetimer/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Event log path")
	rootCmd.PersistentFlags().String(FlagStoreFile, "", "Timer snapshot path")
	rootCmd.PersistentFlags().String(FlagSocketPath, "", "Unix socket path for remote control")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "racetimer %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newRunCmd(logger, logLevel))
	rootCmd.AddCommand(remoteCommands()...)
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newInitCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
