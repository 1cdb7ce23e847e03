package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/npratt/racetimer/internal/daemon"
	initcmd "github.com/npratt/racetimer/internal/init"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write the default configuration to .racetimer/config.yaml in the project
root, or to ~/.config/racetimer/config.yaml with --global.

An existing file that differs from the defaults is left alone and its diff is
shown; --force replaces it and keeps a timestamped backup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := initcmd.Run(initcmd.Options{
				DryRun: viper.GetBool(FlagDryRun),
				Force:  viper.GetBool(FlagForce),
				Global: viper.GetBool(FlagGlobal),
				Dir:    daemon.FindProjectRoot(""),
				Writer: cmd.OutOrStdout(),
			})
			return err
		},
	}

	initCmd.Flags().Bool(FlagDryRun, false, "Show what would change without writing")
	initCmd.Flags().Bool(FlagForce, false, "Overwrite a changed file (keeps a backup)")
	initCmd.Flags().Bool(FlagGlobal, false, "Write the user-wide config instead of the project one")
	initCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})
	return initCmd
}
