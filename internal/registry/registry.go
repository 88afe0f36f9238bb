// Package registry aggregates adapters into one discovery and dispatch
// surface: lookup by adapter or tool name, status, statistics and batch
// builds across adapters.
package registry

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/logger"
)

var log = logger.ForComponent("registry")

var (
	ErrAdapterNotFound = errors.New("adapter not found")
	ErrToolNotFound    = errors.New("tool not found")
)

type entry struct {
	tool    *adapter.Tool
	adapter *adapter.Adapter
}

type Registry struct {
	adapters []*adapter.Adapter
	byName   map[string]*adapter.Adapter
	tools    map[string]entry
	workers  int
}

type Option func(*Registry)

// WithWorkers bounds the concurrency of ConnectAll and BatchBuild.
func WithWorkers(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.workers = n
		}
	}
}

// New validates the adapter set and indexes it. Names must be unique and
// well formed, every tool must carry its adapter's prefix, and every adapter
// must publish the minimum tool surface.
func New(adapters []*adapter.Adapter, opts ...Option) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]*adapter.Adapter, len(adapters)),
		tools:   make(map[string]entry),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, a := range adapters {
		if err := r.add(a); err != nil {
			return nil, err
		}
	}

	log.Info("registry ready", "adapters", len(r.adapters), "tools", len(r.tools))
	return r, nil
}

func (r *Registry) add(a *adapter.Adapter) error {
	name := a.Name()
	if !adapter.ValidName(name) {
		return fmt.Errorf("invalid adapter name %q", name)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("adapter already registered: %s", name)
	}
	if err := checkSurface(a); err != nil {
		return err
	}

	for _, t := range a.Tools() {
		if _, exists := r.tools[t.Name()]; exists {
			return fmt.Errorf("tool already registered: %s", t.Name())
		}
		r.tools[t.Name()] = entry{tool: t, adapter: a}
	}
	r.adapters = append(r.adapters, a)
	r.byName[name] = a
	return nil
}

func checkSurface(a *adapter.Adapter) error {
	tools := a.Tools()
	if len(tools) < adapter.MinTools {
		return fmt.Errorf("adapter %s publishes %d tools, need at least %d", a.Name(), len(tools), adapter.MinTools)
	}

	prefix := a.Name() + "_"
	for _, t := range tools {
		if !strings.HasPrefix(t.Name(), prefix) {
			return fmt.Errorf("adapter %s: tool %s is not prefixed with %s", a.Name(), t.Name(), prefix)
		}
	}

	for _, op := range adapter.RequiredOps {
		found := false
		for _, t := range tools {
			if strings.Contains(t.Name(), string(op)) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("adapter %s: missing %s tool", a.Name(), op)
		}
	}
	return nil
}

func (r *Registry) Get(name string) (*adapter.Adapter, error) {
	a, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, name)
	}
	return a, nil
}

// List returns the adapters in registration order.
func (r *Registry) List() []*adapter.Adapter {
	return append([]*adapter.Adapter(nil), r.adapters...)
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		names[i] = a.Name()
	}
	return names
}

func (r *Registry) Infos() []adapter.Info {
	infos := make([]adapter.Info, len(r.adapters))
	for i, a := range r.adapters {
		infos[i] = a.Info()
	}
	return infos
}

// Tool looks a tool up by its exact name across every adapter.
func (r *Registry) Tool(name string) (*adapter.Tool, *adapter.Adapter, error) {
	e, ok := r.tools[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return e.tool, e.adapter, nil
}

// Tools returns every tool, grouped by adapter in registration order.
func (r *Registry) Tools() []*adapter.Tool {
	tools := make([]*adapter.Tool, 0, len(r.tools))
	for _, a := range r.adapters {
		tools = append(tools, a.Tools()...)
	}
	return tools
}

// Execute dispatches to a tool by name. The only error is an unknown tool;
// every execution outcome is reported in the Result.
func (r *Registry) Execute(ctx context.Context, name string, in adapter.Input) (adapter.Result, error) {
	t, _, err := r.Tool(name)
	if err != nil {
		return adapter.Result{}, err
	}
	return t.Execute(ctx, in), nil
}

// Status reports an adapter's connection state. With probe set the adapter
// is connected first, so the state reflects the environment right now.
func (r *Registry) Status(ctx context.Context, name string, probe bool) (adapter.Status, error) {
	a, err := r.Get(name)
	if err != nil {
		return adapter.Status{}, err
	}
	if probe {
		a.Connect(ctx)
	}
	return a.Status(), nil
}
