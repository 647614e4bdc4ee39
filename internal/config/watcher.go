package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the bursts of events editors produce for one save
const reloadDelay = 50 * time.Millisecond

// Watcher watches a config file and reloads it on change. Handlers run on
// the watcher goroutine; the app re-binds its hold widgets from there by
// posting to its event loop.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	mu       sync.RWMutex
	config   *Config
	handlers []func(*Config)
	pending  *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher loads path and prepares to watch it
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	return &Watcher{
		path:    path,
		watcher: w,
		config:  cfg,
		done:    make(chan struct{}),
	}, nil
}

// Start starts watching for config file changes
func (w *Watcher) Start() {
	go w.watch()
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		if w.pending != nil {
			w.pending.Stop()
		}
		w.mu.Unlock()
	})
}

// OnReload registers a handler to be called with every successfully
// reloaded config
func (w *Watcher) OnReload(handler func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Get returns the current config
func (w *Watcher) Get() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Some editors save atomically via rename, which shows up as Create
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(reloadDelay, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("Failed to reload config: %v", err)
		return
	}

	w.mu.Lock()
	w.config = cfg
	handlers := make([]func(*Config), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	log.Printf("Config reloaded from %s (%d buttons)", w.path, len(cfg.Buttons))

	for _, handler := range handlers {
		handler(cfg)
	}
}
