package config

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/logger"
	"github.com/hyperpolymath/qed-ssg/internal/watcher"
)

var log = logger.ForComponent("config")

// Live holds the settings that can change while the host runs: adapter
// timeouts and the allowed-root policy. Everything else needs a restart.
type Live struct {
	timeouts atomic.Pointer[adapter.Timeouts]
	policy   *adapter.Policy

	mu      sync.Mutex
	watcher *watcher.Watcher
}

func NewLive(c *Config) (*Live, error) {
	policy, err := adapter.NewPolicy(c.Adapters.AllowedRoots)
	if err != nil {
		return nil, err
	}
	l := &Live{policy: policy}
	t := c.AdapterTimeouts()
	l.timeouts.Store(&t)
	return l, nil
}

// Timeouts matches the signature adapter.WithTimeouts expects.
func (l *Live) Timeouts() adapter.Timeouts {
	return *l.timeouts.Load()
}

func (l *Live) Policy() *adapter.Policy {
	return l.policy
}

// Apply swaps in the reloadable settings of c.
func (l *Live) Apply(c *Config) error {
	if err := l.policy.Set(c.Adapters.AllowedRoots); err != nil {
		return err
	}
	t := c.AdapterTimeouts()
	l.timeouts.Store(&t)
	return nil
}

// Watch reloads the config file whenever it changes and applies it. An
// invalid file is logged and the running settings are kept.
func (l *Live) Watch(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	w, err := watcher.New(watcher.DefaultConfig(), func([]watcher.FileEvent) {
		l.reload(path)
	})
	if err != nil {
		return err
	}
	if err := w.AddFile(path); err != nil {
		w.Stop()
		return fmt.Errorf("watch config: %w", err)
	}

	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()

	w.Start(ctx)
	log.Info("watching config", "path", path)
	return nil
}

func (l *Live) reload(path string) {
	c, err := Load(path)
	if err != nil {
		log.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	if err := l.Apply(c); err != nil {
		log.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	log.Info("config reloaded", "path", path,
		"build_timeout", c.Timeouts.Build.String(),
		"allowed_roots", len(c.Adapters.AllowedRoots))
}

func (l *Live) Close() error {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Stop()
}
