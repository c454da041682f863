package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotuschain/gnome-ext-builder/cmd"
	"github.com/lotuschain/gnome-ext-builder/internal/tui"
	"github.com/lotuschain/gnome-ext-builder/internal/version"
)

var appVersion = "0.1.0"

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "gnome-ext-builder",
		Short:         "Generate GNOME Shell extensions from a plain-language description",
		Version:       appVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if err := cmd.InitLogger(verbose); err != nil {
				return err
			}
			if c.Name() != cmd.SetupCmd.Name() && version.IsFirstRun(cmd.ConfigFileName) {
				version.PrintFirstRunNotice(c.ErrOrStderr())
			}
			return nil
		},
		PersistentPostRun: func(c *cobra.Command, args []string) {
			version.PrintUpdateNotice(c.ErrOrStderr(), version.CheckForUpdate(c.Context(), appVersion))
			cmd.SyncLogger()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.AddPersistentFlags(rootCmd)
	rootCmd.AddCommand(cmd.GenerateCmd, cmd.ServeCmd, cmd.SetupCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, tui.RenderError(err.Error()))
		os.Exit(1)
	}
}
