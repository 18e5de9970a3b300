package daemonrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ncmconv/internal/config"
	"ncmconv/internal/convert"
	"ncmconv/internal/daemon"
	"ncmconv/internal/history"
	"ncmconv/internal/logging"
	"ncmconv/internal/preflight"
)

// Options configures watch process runtime behavior.
type Options struct {
	// Dir overrides cfg.Watch.Dir.
	Dir string
	// Console receives log output. Nil means stderr.
	Console io.Writer
	// Reporter receives conversion events in addition to the logs.
	Reporter convert.Reporter
}

// abandonedReason marks history rows left started by a previous process.
const abandonedReason = "interrupted: process exited before the conversion finished"

// Run starts the watch daemon and blocks until SIGINT/SIGTERM or ctx ends.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		dir = cfg.Watch.Dir
	}
	if dir == "" {
		return fmt.Errorf("no watch directory: pass one or set watch.dir in config")
	}
	if expanded, err := config.ExpandPath(dir); err == nil {
		dir = expanded
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	logger, err := logging.NewFromConfig(cfg, console)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if failed := preflight.Failed(preflight.RunAll(cfg, dir)); len(failed) > 0 {
		for _, r := range failed {
			logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldErrorHint, "fix the directory or its permissions and restart"),
			)
		}
		return fmt.Errorf("preflight failed: %s: %s", failed[0].Name, failed[0].Detail)
	}
	logDependencySnapshot(logger, cfg)

	svcOpts := []convert.Option{}
	if opts.Reporter != nil {
		svcOpts = append(svcOpts, convert.WithReporter(opts.Reporter))
	}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryDBPath())
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "conversions are not recorded"),
			)
		} else {
			defer store.Close()
			if n, err := store.AbandonStarted(signalCtx, abandonedReason); err == nil && n > 0 {
				logger.Info("marked interrupted conversions as failed", logging.Int64("count", n))
			}
			svcOpts = append(svcOpts, convert.WithHistory(store))
		}
	}

	svc, err := convert.NewServiceFromConfig(cfg, logger, svcOpts...)
	if err != nil {
		return fmt.Errorf("create conversion service: %w", err)
	}
	d, err := daemon.New(cfg, daemon.ConverterFunc(func(ctx context.Context, path string) error {
		_, err := svc.Convert(ctx, path)
		return err
	}), logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx, dir); err != nil {
		return err
	}
	defer d.Stop()

	select {
	case <-signalCtx.Done():
		logger.Info("ncmconv watch shutting down")
	case <-d.Done():
		logging.WarnWithContext(logger, "directory watch ended unexpectedly", "watch_ended",
			logging.String(logging.FieldImpact, "new files are no longer converted"),
			logging.String(logging.FieldErrorHint, "check that the watch directory still exists"),
		)
	}
	// Stop waits for in-flight conversions so the counts are final.
	d.Stop()
	status := d.Status()
	logger.Info("watch summary",
		logging.String("dir", dir),
		logging.Int64("converted", status.Converted),
		logging.Int64("failed", status.Failed),
	)
	return nil
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	for _, status := range preflight.CheckSystemDeps(cfg) {
		if status.Available {
			logger.Info("dependency available",
				logging.String(logging.FieldEventType, "dependency_snapshot"),
				logging.String("name", status.Name),
				logging.String("binary", status.Resolved),
			)
			continue
		}
		logging.WarnWithContext(logger, "dependency missing", "dependency_missing",
			logging.String("name", status.Name),
			logging.String("detail", status.Detail),
			logging.String(logging.FieldImpact, "non-FLAC payloads will fail to convert"),
			logging.String(logging.FieldErrorHint, "install ffmpeg or set transcoder.binary"),
		)
	}
}
