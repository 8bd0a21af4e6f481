package manager

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcherConfig contains configuration for the rule file watcher.
type FileWatcherConfig struct {
	// Path is the YAML file to watch. The containing directory is
	// watched so that atomic rename-style saves are seen.
	Path string

	// DebounceInterval is the quiet period before the callback fires.
	// Default: 100ms.
	DebounceInterval time.Duration
}

// FileWatcher watches a single rule file for changes and triggers reloads
// with debouncing to prevent reload storms.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	config   *FileWatcherConfig
	debounce *debouncer
	logger   *slog.Logger
}

// NewFileWatcher creates a new rule file watcher.
func NewFileWatcher(config *FileWatcherConfig, logger *slog.Logger) (*FileWatcher, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("watcher path cannot be empty")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		config:   config,
		debounce: newDebouncer(config.DebounceInterval),
		logger:   logger.With("component", "protocol.watcher"),
	}, nil
}

// Watch blocks processing file events until the context is cancelled or
// Close is called, invoking onChange after each debounced change to the
// watched file.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func()) error {
	// Watch the parent directory: editors and config management tools
	// typically replace the file via rename, which would orphan a watch
	// on the file itself.
	dir := filepath.Dir(fw.config.Path)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}

	fw.logger.Info("rule file watcher started",
		"path", fw.config.Path,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("rule file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.shouldProcessEvent(event) {
				continue
			}

			fw.logger.Debug("rule file event",
				"path", event.Name,
				"op", event.Op.String(),
			)
			fw.debounce.trigger(onChange)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			// Keep watching despite transient errors.
			fw.logger.Error("rule file watcher error", "error", err)
		}
	}
}

// Close stops the watcher and cancels any pending debounced callback.
func (fw *FileWatcher) Close() error {
	fw.debounce.stop()
	return fw.watcher.Close()
}

// shouldProcessEvent filters events down to writes of the watched file.
func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if filepath.Clean(event.Name) != filepath.Clean(fw.config.Path) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}

// debouncer collapses rapid event bursts into a single callback after a
// quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

// trigger schedules callback after the debounce interval, resetting any
// pending timer.
func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, callback)
}

// stop cancels any pending callback and ignores further triggers.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
