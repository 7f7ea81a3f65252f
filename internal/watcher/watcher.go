// Package watcher turns filesystem events in a vault into debounced note
// change notifications.
//
// It powers `msn sync`: every settled write to a markdown note is handed
// to the change handler, which runs reconciliation. The watcher does not
// distinguish self-writes from external edits; that distinction lives in
// the reconciler's change cache.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/mission/internal/paths"
)

// Watcher monitors a vault directory and reports settled note changes.
type Watcher struct {
	vaultPath string

	debounceDelay time.Duration
	debug         bool

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onChange func(path string)
}

// Config holds configuration options for the Watcher.
type Config struct {
	VaultPath     string
	DebounceDelay time.Duration // default: 100ms
	Debug         bool
	OnChange      func(path string) // called with the absolute note path
}

// New creates a Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change handler is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		vaultPath:     cfg.VaultPath,
		debounceDelay: debounce,
		debug:         cfg.Debug,
		pending:       make(map[string]time.Time),
		onChange:      cfg.OnChange,
	}, nil
}

// Start begins watching the vault for note changes.
// It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.vaultPath); err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	w.logDebug("Watching vault: %s", w.vaultPath)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logDebug("Watcher error: %v", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !paths.IsNote(path) {
		// But watch new directories.
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				_ = w.addWatchRecursive(path)
			}
		}
		return
	}

	if paths.IsIgnored(w.vaultPath, path) {
		return
	}

	w.logDebug("Event: %s %s", event.Op, path)

	// Removed or renamed notes have no content to reconcile; only settled
	// writes become change notifications.
	if event.Op&fsnotify.Write != 0 || event.Op&fsnotify.Create != 0 {
		w.scheduleChange(path)
	}
}

// scheduleChange adds a note to the pending queue with debouncing.
func (w *Watcher) scheduleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

// processDebounced delivers pending notifications after the debounce
// delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending delivers notes whose last event is past the debounce
// delay.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	ready := make([]string, 0)

	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.logDebug("Changed: %s", path)
		w.onChange(path)
	}
}

// addWatchRecursive adds a directory and all subdirectories to the
// watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if info.IsDir() {
			if path != root && paths.IsIgnored(w.vaultPath, path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logDebug("Failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
}

// logDebug logs a debug message if debug mode is enabled.
func (w *Watcher) logDebug(format string, args ...interface{}) {
	if w.debug {
		fmt.Fprintf(os.Stderr, "[msn-watcher] "+format+"\n", args...)
	}
}
