package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"ncmconv/internal/logging"
)

// Options configures a Watcher.
type Options struct {
	Dir string
	// Extension is matched case-insensitively, including the leading dot.
	Extension string
	// Debounce is how long a new file must go without writes before it is
	// delivered.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher delivers newly created files from one directory.
type Watcher struct {
	dir       string
	extension string
	debounce  time.Duration
	logger    *slog.Logger

	fs    *fsnotify.Watcher
	paths chan string
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// New starts watching opts.Dir. The directory must exist.
func New(opts Options) (*Watcher, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, errors.New("watch directory required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}
	ext := strings.TrimSpace(opts.Extension)
	if ext == "" {
		return nil, errors.New("watch extension required")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:       dir,
		extension: ext,
		debounce:  max(opts.Debounce, 0),
		logger:    logging.NewComponentLogger(opts.Logger, "watcher").With(logging.String("dir", dir)),
		fs:        fsw,
		paths:     make(chan string),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.loop()
	w.logger.Info("directory watch started",
		logging.String(logging.FieldEventType, "watch_started"),
		logging.String("extension", ext),
	)
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Paths yields each matching created file once. It is closed after Stop or
// when the underlying watch fails permanently.
func (w *Watcher) Paths() <-chan string { return w.paths }

// Done is closed once the watch goroutine has exited.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// Stop ends the watch and waits for the goroutine to exit. Safe to call more
// than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.quit)
		<-w.done
		w.logger.Info("directory watch stopped",
			logging.String(logging.FieldEventType, "watch_stopped"),
		)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.paths)
	defer func() { _ = w.fs.Close() }()

	pending := make(map[string]time.Time)
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	reschedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, timerC = nil, nil
		if len(pending) == 0 {
			return
		}
		var earliest time.Time
		for _, deadline := range pending {
			if earliest.IsZero() || deadline.Before(earliest) {
				earliest = deadline
			}
		}
		timer = time.NewTimer(time.Until(earliest))
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.quit:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.track(pending, ev) {
				reschedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.WarnWithContext(w.logger, "directory watch error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check inotify limits and directory permissions"),
				logging.String(logging.FieldImpact, "some new files may not be converted"),
			)
		case <-timerC:
			now := time.Now()
			due := make([]string, 0, len(pending))
			for path, deadline := range pending {
				if !deadline.After(now) {
					due = append(due, path)
				}
			}
			sort.Strings(due)
			for _, path := range due {
				delete(pending, path)
				w.logger.Debug("file ready", logging.String(logging.FieldPath, path))
				select {
				case w.paths <- path:
				case <-w.quit:
					return
				}
			}
			reschedule()
		}
	}
}

// track updates pending for ev and reports whether the schedule changed.
func (w *Watcher) track(pending map[string]time.Time, ev fsnotify.Event) bool {
	_, known := pending[ev.Name]
	switch {
	case ev.Has(fsnotify.Create):
		if !w.matches(ev.Name) {
			return false
		}
		pending[ev.Name] = time.Now().Add(w.debounce)
		return true
	case ev.Has(fsnotify.Write) && known:
		pending[ev.Name] = time.Now().Add(w.debounce)
		return true
	case (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)) && known:
		delete(pending, ev.Name)
		return true
	default:
		return false
	}
}

func (w *Watcher) matches(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), w.extension) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
