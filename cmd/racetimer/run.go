package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/npratt/racetimer/internal/config"
	"github.com/npratt/racetimer/internal/controller"
	"github.com/npratt/racetimer/internal/daemon"
	"github.com/npratt/racetimer/internal/events"
	"github.com/npratt/racetimer/internal/shutdown"
	"github.com/npratt/racetimer/internal/store"
	"github.com/npratt/racetimer/internal/tui"
)

const (
	// tuiEventBuffer absorbs tick bursts while the board redraws.
	tuiEventBuffer = 1000
	shutdownWait   = 10 * time.Second
)

// loadConfig reads configuration, applies explicit path flags, and resolves
// every path against the project root.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, err := config.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed(FlagLogFile) {
		cfg.Paths.Log = viper.GetString(FlagLogFile)
	}
	if flags.Changed(FlagStoreFile) {
		cfg.Paths.Store = viper.GetString(FlagStoreFile)
		if !flags.Changed(FlagStoreFormat) {
			cfg.Store.Format = string(store.FormatFromPath(cfg.Paths.Store))
		}
	}
	if flags.Changed(FlagStoreFormat) {
		cfg.Store.Format = viper.GetString(FlagStoreFormat)
	}
	if flags.Changed(FlagSocketPath) {
		cfg.Paths.Socket = viper.GetString(FlagSocketPath)
	}

	projectRoot := daemon.FindProjectRoot("")
	cfg.Paths, err = daemon.ResolvePaths(cfg.Paths, projectRoot)
	if err != nil {
		return nil, "", fmt.Errorf("resolve paths: %w", err)
	}
	return cfg, projectRoot, nil
}

// wantTUI decides between the board and headless mode. An explicit --tui
// wins; otherwise the board is used when stdout is a terminal.
func wantTUI(cmd *cobra.Command) (bool, error) {
	headless := viper.GetBool(FlagHeadless) || viper.GetBool(FlagDetach)
	if !cmd.Flags().Changed(FlagTUI) {
		return !headless && term.IsTerminal(int(os.Stdout.Fd())), nil
	}
	if viper.GetBool(FlagTUI) && headless {
		return false, errors.New("--tui cannot be combined with --headless or --detach")
	}
	return viper.GetBool(FlagTUI), nil
}

func newRunCmd(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the race and its control socket",
		Long: `Load the saved timers and serve them until quit.

With a terminal the timer board is shown. --headless runs without it, and
--detach runs headless in the background. Either way the race can be driven
from other terminals with add, start, pause and the other remote commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tuiEnabled, err := wantTUI(cmd)
			if err != nil {
				return err
			}

			cfg, projectRoot, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if viper.GetBool(FlagDetach) {
				if daemon.NewClient(cfg.Paths.Socket).IsRunning() {
					return fmt.Errorf("racetimer already running (socket: %s)", cfg.Paths.Socket)
				}
				shouldExit, _, err := daemon.Daemonize(cfg.Paths.Socket, cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("daemonize: %w", err)
				}
				if shouldExit {
					return nil
				}
			}

			// Clear what a crashed run left behind, then take ownership of
			// the snapshot and socket.
			lock := daemon.NewInstanceLock(cfg.Paths.PID)
			lock.CleanupStale()
			if err := lock.Acquire(daemon.Owner{
				PID:    os.Getpid(),
				Store:  cfg.Paths.Store,
				Socket: cfg.Paths.Socket,
				Since:  time.Now(),
			}); err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			infoPath := daemon.DaemonInfoPath(projectRoot)
			if err := daemon.WriteDaemonInfo(infoPath, &daemon.DaemonInfo{
				SocketPath: cfg.Paths.Socket,
				PIDPath:    cfg.Paths.PID,
				LogPath:    cfg.Paths.Log,
				StorePath:  cfg.Paths.Store,
				StartTime:  time.Now(),
				PID:        os.Getpid(),
			}); err != nil {
				logger.Warn("failed to write daemon info", "error", err)
			}
			defer func() { _ = daemon.RemoveDaemonInfo(infoPath) }()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			appLogger := logger
			if tuiEnabled {
				tuiLog, err := SetupTUILogger(filepath.Dir(cfg.Paths.Log), logLevel, cfg.LogRotation)
				if err != nil {
					return err
				}
				defer func() { _ = tuiLog.Close() }()
				appLogger = tuiLog.Logger
				slog.SetDefault(appLogger)
			}

			appLogger.Info("racetimer starting",
				"version", version,
				"store", cfg.Paths.Store,
				"format", cfg.Store.Format,
				"log_file", cfg.Paths.Log,
				"socket", cfg.Paths.Socket,
				"tui", tuiEnabled,
			)

			router := events.NewRouter(events.DefaultBufferSize)
			router.SetLogger(appLogger)

			logSink := events.NewLogSink(cfg.Paths.Log, events.WithSinkLogger(appLogger))
			if err := logSink.Start(ctx, router.Subscribe()); err != nil {
				router.Close()
				return fmt.Errorf("start log sink: %w", err)
			}
			// Closing the router ends the sink's stream so Stop can drain it.
			defer func() {
				router.Close()
				_ = logSink.Stop()
			}()

			gw, err := store.NewFile(cfg.Paths.Store, store.Format(cfg.Store.Format), appLogger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			ctrl := controller.New(cfg, gw, nil, router, appLogger)
			defer ctrl.Close()

			dmn := daemon.New(cfg, ctrl, appLogger)

			if tuiEnabled {
				return runBoard(ctx, cfg, ctrl, dmn, router, appLogger)
			}

			dmn.OnShutdown(cancel)
			return shutdown.Run(ctx, appLogger, shutdownWait,
				dmn.Start,
				func(context.Context) error {
					ctrl.Close()
					return dmn.Stop()
				},
			)
		},
	}

	runCmd.Flags().Bool(FlagTUI, false, "Show the timer board (default when stdout is a terminal)")
	runCmd.Flags().Bool(FlagHeadless, false, "Run without the timer board")
	runCmd.Flags().Bool(FlagDetach, false, "Run headless in the background")
	runCmd.Flags().String(FlagStoreFormat, "", "Snapshot encoding: json, yaml or cbor")
	runCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	return runCmd
}

// runBoard serves the socket in the background while the board owns the
// terminal. A remote shutdown closes the board's event stream, which ends it.
func runBoard(ctx context.Context, cfg *config.Config, ctrl *controller.Controller, dmn *daemon.Daemon, router *events.Router, logger *slog.Logger) error {
	boardEvents := router.SubscribeBuffered(tuiEventBuffer)
	defer router.Unsubscribe(boardEvents)

	daemonCtx, daemonCancel := context.WithCancel(ctx)
	daemonDone := make(chan struct{})
	go func() {
		defer close(daemonDone)
		if err := dmn.Start(daemonCtx); err != nil {
			logger.Error("control socket failed", "error", err)
		}
	}()

	dmn.OnShutdown(func() { router.Unsubscribe(boardEvents) })

	board := tui.New(ctrl, boardEvents,
		tui.WithOnQuit(ctrl.Close),
		tui.WithRefreshInterval(cfg.TUI.RefreshInterval),
		tui.WithShowHelp(cfg.TUI.ShowHelp),
	)
	err := board.Run()

	daemonCancel()
	<-daemonDone
	return err
}
