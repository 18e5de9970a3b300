package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ncmconv/internal/history"
)

const historyMessageWidth = 48

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show conversion history",
	}

	listCmd := newHistoryListCommand(ctx)
	historyCmd.RunE = listCmd.RunE
	historyCmd.Flags().AddFlagSet(listCmd.Flags())

	historyCmd.AddCommand(listCmd)
	historyCmd.AddCommand(newHistoryStatsCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatusFilters(statusFlags)
			if err != nil {
				return err
			}
			return withHistory(ctx, cmd, func(store *history.Store) error {
				entries, err := store.List(cmd.Context(), limit, statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No conversions recorded")
					return nil
				}
				tbl := newOutputTable(
					column{title: "ID"},
					column{title: "Status"},
					column{title: "Source"},
					column{title: "Output"},
					column{title: "Updated"},
					column{title: "Took", right: true},
					column{title: "Message"},
				)
				for _, e := range entries {
					tbl.add(
						shortID(e.RequestID),
						string(e.Status),
						filepath.Base(e.SourcePath),
						baseOrDash(e.OutputPath),
						e.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
						formatDuration(e.Duration()),
						truncate(e.Message, historyMessageWidth),
					)
				}
				fmt.Fprintln(out, tbl.render())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Filter by status (started, completed, failed, rejected)")
	return cmd
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize conversions by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, cmd, func(store *history.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				tbl := newOutputTable(column{title: "Status"}, column{title: "Count", right: true})
				tbl.add("started", strconv.Itoa(health.Started))
				tbl.add("completed", strconv.Itoa(health.Completed))
				tbl.add("failed", strconv.Itoa(health.Failed))
				tbl.add("rejected", strconv.Itoa(health.Rejected))
				tbl.add("total", strconv.Itoa(health.Total))
				fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove finished entries from the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, cmd, func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entr%s\n", removed, pluralY(removed))
				return nil
			})
		},
	}
}

func withHistory(ctx *commandContext, cmd *cobra.Command, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "History is disabled (history.enabled = false)")
		return nil
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func parseStatusFilters(values []string) ([]history.Status, error) {
	statuses := make([]history.Status, 0, len(values))
	for _, v := range values {
		status, ok := history.ParseStatus(v)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", v)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func baseOrDash(path string) string {
	if strings.TrimSpace(path) == "" {
		return "-"
	}
	return filepath.Base(path)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func truncate(s string, width int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
