package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"meridian-hq/meridian/pkg/protocol"
)

// Config contains configuration for the rule config manager.
type Config struct {
	// Path is the rule config YAML file to load and watch.
	Path string

	// Watch enables hot reload on file changes.
	// Default: false.
	Watch bool

	// DebounceInterval is the quiet period after a file event before a
	// reload is triggered, preventing reload storms from editors that
	// write in multiple syscalls.
	// Default: 100ms.
	DebounceInterval time.Duration

	// OnReload is called after every load attempt, including the
	// initial one, with the outcome ("success" or "error") and the
	// number of active rules in effect afterwards. Optional.
	OnReload func(status string, activeRules int)
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() *Config {
	return &Config{
		Watch:            false,
		DebounceInterval: 100 * time.Millisecond,
	}
}

// Manager loads a rule config from disk and serves it to concurrent
// verifications, hot-reloading it atomically when the file changes.
type Manager struct {
	config  *Config
	current atomic.Pointer[protocol.RuleConfig]
	watcher *FileWatcher
	logger  *slog.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewManager creates a manager and performs the initial load. The initial
// load must succeed: starting with no rules at all would silently disable
// every protocol check.
func NewManager(config *Config, logger *slog.Logger) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Path == "" {
		return nil, fmt.Errorf("rule config path cannot be empty")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		config: config,
		logger: logger.With("component", "protocol.manager"),
	}

	cfg, err := protocol.LoadRuleConfig(config.Path)
	if err != nil {
		return nil, fmt.Errorf("initial rule config load failed: %w", err)
	}
	m.current.Store(cfg)
	m.notifyReload("success", cfg.ActiveRuleCount())

	m.logger.Info("rule config loaded",
		"path", config.Path,
		"version", cfg.Version,
		"enabled_checkers", cfg.EnabledCheckers(),
	)

	return m, nil
}

// Current returns the active rule config. The returned config is complete
// and consistent even if a reload is in progress, and must be treated as
// read-only.
func (m *Manager) Current() *protocol.RuleConfig {
	return m.current.Load()
}

// Reload re-reads and validates the rule config, swapping it in atomically
// on success. On failure the previous config stays active and the error is
// returned.
func (m *Manager) Reload() error {
	cfg, err := protocol.LoadRuleConfig(m.config.Path)
	if err != nil {
		m.notifyReload("error", m.Current().ActiveRuleCount())
		return err
	}

	m.current.Store(cfg)
	m.notifyReload("success", cfg.ActiveRuleCount())

	m.logger.Info("rule config reloaded",
		"path", m.config.Path,
		"version", cfg.Version,
		"enabled_checkers", cfg.EnabledCheckers(),
	)
	return nil
}

// Start begins watching the rule file for changes if watching is enabled.
// It returns immediately; watching happens on a background goroutine until
// Close is called or the context is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	if !m.config.Watch {
		m.logger.Debug("rule config watch disabled")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return fmt.Errorf("manager already started")
	}

	watcher, err := NewFileWatcher(&FileWatcherConfig{
		Path:             m.config.Path,
		DebounceInterval: m.config.DebounceInterval,
	}, m.logger)
	if err != nil {
		return fmt.Errorf("failed to create rule watcher: %w", err)
	}
	m.watcher = watcher

	watchCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.started = true

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := watcher.Watch(watchCtx, m.onFileChange); err != nil {
			m.logger.Error("rule watcher stopped with error", "error", err)
		}
	}()

	return nil
}

func (m *Manager) notifyReload(status string, activeRules int) {
	if m.config.OnReload != nil {
		m.config.OnReload(status, activeRules)
	}
}

// onFileChange is the watcher callback. A failed reload keeps the previous
// config active.
func (m *Manager) onFileChange() {
	if err := m.Reload(); err != nil {
		m.logger.Error("rule config reload failed, keeping previous config",
			"path", m.config.Path,
			"error", err,
		)
	}
}

// Close stops the watcher and waits for the background goroutine to exit.
func (m *Manager) Close() error {
	m.mu.Lock()
	started := m.started
	m.started = false
	m.mu.Unlock()

	if !started {
		return nil
	}

	m.cancel()
	err := m.watcher.Close()
	m.wg.Wait()
	return err
}
