package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ncmconv/internal/config"
	"ncmconv/internal/convert"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var jobs int
	var showStarted bool

	cmd := &cobra.Command{
		Use:   "convert <file|dir>...",
		Short: "Convert NCM containers to FLAC",
		Long: "Convert NCM containers to FLAC.\n\n" +
			"Directories are expanded to the containers they hold (non-recursive).\n" +
			"Outputs are written next to each input unless --output-dir or\n" +
			"paths.output_dir is set.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if dir := strings.TrimSpace(outputDir); dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				runCfg.Paths.OutputDir = expanded
			}
			if jobs > 0 {
				runCfg.Workers.Conversions = jobs
			}

			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts := []convert.Option{convert.WithReporter(newEventPrinter(out, showStarted))}
			if store := ctx.openHistory(cmd); store != nil {
				defer store.Close()
				opts = append(opts, convert.WithHistory(store))
			}

			svc, err := convert.NewServiceFromConfig(&runCfg, logger, opts...)
			if err != nil {
				return err
			}

			outcomes, convErr := svc.ConvertAll(cmd.Context(), args, runCfg.Watch.Extension)
			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
				}
			}
			if len(outcomes) == 0 && convErr == nil {
				fmt.Fprintf(out, "No %s files found\n", runCfg.Watch.Extension)
				return nil
			}
			if len(outcomes) > 0 {
				fmt.Fprintf(out, "Converted %d of %d file(s)\n", len(outcomes)-failed, len(outcomes))
			}
			if failed > 0 {
				return fmt.Errorf("%d conversion(s) failed", failed)
			}
			return convErr
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for converted files")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of files converted concurrently")
	cmd.Flags().BoolVar(&showStarted, "show-started", false, "Print a line when each conversion starts")
	return cmd
}
