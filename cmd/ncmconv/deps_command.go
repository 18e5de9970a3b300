package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ncmconv/internal/deps"
	"ncmconv/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			lines := newLineRenderer(out)

			fmt.Fprintln(out, lines.section("Dependencies"))
			statuses := preflight.CheckSystemDeps(cfg)
			for _, status := range statuses {
				fmt.Fprintln(out, lines.status(status.Name, dependencyKind(status), dependencyMessage(status)))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, lines.section("Directories"))
			for _, r := range preflight.RunAll(cfg, cfg.Watch.Dir) {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, lines.status(r.Name, kind, r.Detail))
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required dependency: %s", missing[0].Command)
			}
			return nil
		},
	}
}

func dependencyKind(s deps.Status) statusKind {
	switch {
	case s.Available:
		return statusOK
	case s.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyMessage(s deps.Status) string {
	if s.Available {
		return s.Resolved
	}
	if s.Optional {
		return s.Detail + " (needed only for non-FLAC payloads)"
	}
	return s.Detail
}
