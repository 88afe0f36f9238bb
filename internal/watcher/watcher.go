// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/hyperpolymath/qed-ssg/internal/logger"
)

var log = logger.ForComponent("watcher")

// Watcher watches individual files. It watches their parent directories so
// editors that save by renaming a temporary file over the target are seen.
type Watcher struct {
	config    WatcherConfig
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(config WatcherConfig, onChange func([]FileEvent)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		config:    config,
		fsWatcher: fsWatcher,
		files:     make(map[string]bool),
		dirs:      make(map[string]bool),
	}
	w.debouncer = NewDebouncer(config.DebounceWindow, config.MaxBatchSize, onChange)
	return w, nil
}

// AddFile starts reporting changes to path.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirs[dir] {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	log.Debug("watching file", "path", abs)
	return nil
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(path)]
}

func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.handleEvents(ctx)
}

func (w *Watcher) handleEvents(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.watched(event.Name) {
				continue
			}
			if fe, ok := convert(event); ok {
				log.Debug("file event", "path", fe.Path, "type", fe.Type)
				w.debouncer.Add(fe)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	if running {
		w.cancel()
	}
	w.mu.Unlock()

	if running {
		<-w.done
	}
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
