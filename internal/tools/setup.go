package tools

import (
	"fmt"
	"time"

	"github.com/hyperpolymath/qed-ssg/internal/history"
	"github.com/hyperpolymath/qed-ssg/internal/registry"
)

type Deps struct {
	Adapters *registry.Registry
	History  *history.Store
	Procs    ProcessTracker
	Started  time.Time
}

// RegisterAll registers the host tools followed by every adapter tool.
func RegisterAll(r *Registry, deps Deps) error {
	var rec Recorder
	if deps.History != nil {
		rec = deps.History
	}

	host := []Tool{
		NewHealthTool(deps.Adapters, deps.Procs, deps.Started),
		newListAdapters(deps.Adapters),
		newAdapterStatus(deps.Adapters),
		newConnectAdapter(deps.Adapters),
		newDisconnectAdapter(deps.Adapters),
		newRegistryStats(deps.Adapters),
		newBatchBuild(deps.Adapters, rec),
	}
	if deps.History != nil {
		host = append(host, newInvocationHistory(deps.History))
	}

	for _, tool := range host {
		if err := r.Register(tool); err != nil {
			return err
		}
	}

	count := 0
	for _, a := range deps.Adapters.List() {
		for _, t := range a.Tools() {
			at, err := NewAdapterTool(a, t, rec)
			if err != nil {
				return fmt.Errorf("%s: %w", t.Name(), err)
			}
			if err := r.Register(at); err != nil {
				return fmt.Errorf("%s: %w", a.Name(), err)
			}
			count++
		}
	}

	log.Info("tools registered", "host", len(host), "adapter", count)
	return nil
}
