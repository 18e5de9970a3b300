package main

import (
	"io"

	"github.com/spf13/cobra"

	"ncmconv/internal/daemonrun"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and convert new containers",
		Long: "Watch a directory and convert containers as they appear.\n\n" +
			"The directory defaults to watch.dir from the configuration. Only one\n" +
			"watch may run per state directory. Stop with Ctrl+C.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := daemonrun.Options{
				Console:  cmd.ErrOrStderr(),
				Reporter: newEventPrinter(cmd.OutOrStdout(), true),
			}
			if len(args) == 1 {
				opts.Dir = args[0]
			}
			if quiet {
				opts.Console = io.Discard
			}
			return daemonrun.Run(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output on stderr")
	return cmd
}
