package watch

import (
	"log/slog"
	"sync"

	"ncmconv/internal/logging"
)

// Manager owns at most one active Watcher.
type Manager struct {
	logger *slog.Logger

	mu     sync.Mutex
	active *Watcher
}

// NewManager returns a manager with no active watch.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{logger: logger}
}

// Start stops any active watch and then starts a new one. On error no watch
// is active.
func (m *Manager) Start(opts Options) (*Watcher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		m.active.Stop()
		m.active = nil
	}
	if opts.Logger == nil {
		opts.Logger = m.logger
	}
	w, err := New(opts)
	if err != nil {
		return nil, err
	}
	m.active = w
	return w, nil
}

// Stop ends the active watch, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.active.Stop()
		m.active = nil
	}
}

// Active returns the watched directory when a watch is running.
func (m *Manager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return m.active.Dir(), true
}
