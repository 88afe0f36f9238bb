package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/catalog"
	"github.com/hyperpolymath/qed-ssg/internal/config"
	"github.com/hyperpolymath/qed-ssg/internal/history"
	"github.com/hyperpolymath/qed-ssg/internal/mcp"
	"github.com/hyperpolymath/qed-ssg/internal/registry"
	"github.com/hyperpolymath/qed-ssg/internal/runner"
	"github.com/hyperpolymath/qed-ssg/internal/tools"
)

// host is everything one qed-ssg process needs to serve tools.
type host struct {
	runner   *runner.Runner
	live     *config.Live
	adapters *registry.Registry
	history  *history.Store
	tools    *tools.Registry
}

func newHost(cfg *config.Config) (*host, error) {
	live, err := config.NewLive(cfg)
	if err != nil {
		return nil, err
	}

	r := runner.New(runner.WithOutputLimit(cfg.Runner.OutputLimit))

	loaded, err := catalog.Load(r, cfg.Selects,
		adapter.WithTimeouts(live.Timeouts),
		adapter.WithPolicy(live.Policy()))
	if err != nil {
		return nil, fmt.Errorf("failed to load adapters: %w", err)
	}

	reg, err := registry.New(loaded, registry.WithWorkers(cfg.Adapters.Workers))
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.History.Path, cfg.History.Limit)
	if err != nil {
		return nil, err
	}

	tr := tools.NewRegistry()
	err = tools.RegisterAll(tr, tools.Deps{
		Adapters: reg,
		History:  store,
		Procs:    r,
		Started:  time.Now(),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	return &host{
		runner:   r,
		live:     live,
		adapters: reg,
		history:  store,
		tools:    tr,
	}, nil
}

// watch enables hot reload when a config file was loaded.
func (h *host) watch(ctx context.Context, cfg *config.Config) {
	if err := h.live.Watch(ctx, cfg.Path()); err != nil {
		log.Warn("config hot reload disabled", "error", err)
	}
}

func (h *host) handler() *mcp.Handler {
	return mcp.NewHandler(h.tools)
}

// Close stops the config watcher, kills started servers and closes history.
func (h *host) Close() error {
	return errors.Join(
		h.live.Close(),
		h.runner.Close(),
		h.history.Close(),
	)
}
