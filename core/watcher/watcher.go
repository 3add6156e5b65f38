package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/injscope/core/logger"
)

const DefaultDebounce = 300 * time.Millisecond

// SnapshotWatcher calls OnChange whenever the watched snapshot file is written,
// created or replaced. Bursts of events are debounced into one call.
type SnapshotWatcher struct {
	Path     string
	Debounce time.Duration
	OnChange func() error
	// OnRemove, when set, runs as soon as the file is deleted.
	OnRemove func()

	watcher *fsnotify.Watcher
	mutex   sync.Mutex
	timer   *time.Timer
}

func NewSnapshotWatcher(path string, onChange func() error) (*SnapshotWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &SnapshotWatcher{
		Path:     absPath,
		Debounce: DefaultDebounce,
		OnChange: onChange,
		watcher:  fsw,
	}, nil
}

// Watch blocks until ctx is done. The parent directory is watched so editors
// that replace the file on save are still picked up.
func (sw *SnapshotWatcher) Watch(ctx context.Context) error {
	dir := filepath.Dir(sw.Path)
	if err := sw.watcher.Add(dir); err != nil {
		sw.Close()
		return fmt.Errorf("failed to add watcher for %s: %w", dir, err)
	}
	logger.Debug("Watching %s", sw.Path)

	for {
		select {
		case <-ctx.Done():
			return sw.Close()

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != sw.Path {
				continue
			}
			logger.Debug("File event: %s %s", event.Op, event.Name)
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				sw.debounce()
			}
			if event.Has(fsnotify.Remove) && sw.OnRemove != nil {
				sw.OnRemove()
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (sw *SnapshotWatcher) debounce() {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()

	if sw.timer != nil {
		sw.timer.Stop()
	}

	sw.timer = time.AfterFunc(sw.Debounce, func() {
		logger.Debug("Snapshot changed, rebuilding...")
		if err := sw.OnChange(); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

func (sw *SnapshotWatcher) Close() error {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()

	if sw.timer != nil {
		sw.timer.Stop()
	}
	return sw.watcher.Close()
}
