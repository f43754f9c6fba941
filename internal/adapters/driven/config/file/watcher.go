package file

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rivergate-labs/chunksync/internal/logger"
)

// debounceWindow coalesces the burst of events editors emit for one save.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes on disk and notifies
// an optional callback. Used by the schedule command to pick up interval
// changes without a restart.
type Watcher struct {
	store    *ConfigStore
	fsw      *fsnotify.Watcher
	onReload func()

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewWatcher creates a watcher for the store's config file. onReload may be
// nil; when set it runs after every successful reload.
func NewWatcher(store *ConfigStore, onReload func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files by rename,
	// which drops a direct file watch.
	if err := fsw.Add(filepath.Dir(store.Path())); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	return &Watcher{store: store, fsw: fsw, onReload: onReload}, nil
}

// Start begins watching until ctx is cancelled. Returns an error if already
// started.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return fmt.Errorf("config watcher already started")
	}
	w.started = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Close stops watching and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	target := filepath.Clean(w.store.Path())
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, w.reload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		logger.Warn("config reload failed, keeping previous values: %v", err)
		return
	}
	logger.Info("config reloaded from %s", w.store.Path())
	if w.onReload != nil {
		w.onReload()
	}
}
