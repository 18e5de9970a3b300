package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/sourcegraph/conc/pool"

	"ncmconv/internal/config"
	"ncmconv/internal/logging"
	"ncmconv/internal/watch"
)

// Converter runs one conversion request.
type Converter interface {
	Convert(ctx context.Context, path string) error
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, path string) error

// Convert calls f(ctx, path).
func (f ConverterFunc) Convert(ctx context.Context, path string) error { return f(ctx, path) }

// Daemon watches a directory and converts every new container.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	converter Converter
	watches   *watch.Manager

	lockPath string
	lock     *flock.Flock

	mu        sync.Mutex
	running   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	dir       string
	startedAt time.Time
	converted atomic.Int64
	failed    atomic.Int64
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	WatchDir     string
	StartedAt    time.Time
	Converted    int64
	Failed       int64
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, converter Converter, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || converter == nil {
		return nil, errors.New("daemon requires config and converter")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		converter: converter,
		watches:   watch.NewManager(logger),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and begins watching dir.
func (d *Daemon) Start(ctx context.Context, dir string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return errors.New("watch directory required")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another ncmconv watch instance is already running (lock %s)", d.lockPath)
	}

	w, err := d.watches.Start(watch.Options{
		Dir:       dir,
		Extension: d.cfg.Watch.Extension,
		Debounce:  time.Duration(d.cfg.Watch.DebounceMS) * time.Millisecond,
	})
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start watch: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.dir = dir
	d.startedAt = time.Now()
	d.running.Store(true)

	go d.consume(runCtx, w.Paths(), d.done)

	d.logger.Info("ncmconv watch started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("dir", dir),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// consume converts delivered paths until the channel closes.
func (d *Daemon) consume(ctx context.Context, paths <-chan string, done chan<- struct{}) {
	defer close(done)
	p := pool.New().WithMaxGoroutines(max(d.cfg.Workers.Conversions, 1))
	for path := range paths {
		p.Go(func() {
			if err := d.converter.Convert(ctx, path); err != nil {
				d.failed.Add(1)
				return
			}
			d.converted.Add(1)
		})
	}
	p.Wait()
}

// Stop stops the watch, waits for in-flight conversions, and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return
	}

	d.watches.Stop()
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_unlock_failed",
			logging.Error(err),
			logging.String("lock", d.lockPath),
		)
	}
	d.running.Store(false)
	d.logger.Info("ncmconv watch stopped",
		logging.String(logging.FieldEventType, "daemon_stopped"),
		logging.String("dir", d.dir),
	)
}

// Done is closed when the consumer loop exits. It returns nil when the daemon
// is not running.
func (d *Daemon) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done == nil {
		return nil
	}
	return d.done
}

// Status reports the current runtime state.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	status := Status{
		Running:      d.running.Load(),
		Converted:    d.converted.Load(),
		Failed:       d.failed.Load(),
		LockFilePath: d.lockPath,
	}
	if dir, ok := d.watches.Active(); ok && status.Running {
		status.WatchDir = dir
		status.StartedAt = d.startedAt
	}
	return status
}
