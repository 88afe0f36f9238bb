package registry

import (
	"context"
	"path/filepath"

	"github.com/sourcegraph/conc/pool"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/runner"
)

// ConnectAll probes every adapter concurrently and reports which connected.
func (r *Registry) ConnectAll(ctx context.Context) map[string]bool {
	type probe struct {
		name string
		ok   bool
	}

	p := pool.NewWithResults[probe]().WithMaxGoroutines(r.workers)
	for _, a := range r.adapters {
		p.Go(func() probe {
			return probe{name: a.Name(), ok: a.Connect(ctx)}
		})
	}

	out := make(map[string]bool, len(r.adapters))
	for _, res := range p.Wait() {
		out[res.name] = res.ok
	}
	return out
}

func (r *Registry) DisconnectAll() {
	for _, a := range r.adapters {
		a.Disconnect()
	}
}

// BuildRequest names the adapters to build with and the shared source and
// output paths. An empty adapter list selects every adapter.
type BuildRequest struct {
	Adapters []string
	Source   string
	Output   string
}

// BatchBuild runs the build tool of each requested adapter concurrently. When
// more than one adapter builds into the same output path, each writes to
// its own subdirectory named after the adapter. Unknown adapters, and
// adapters that cannot honour a requested output path, get an invalid_input
// result; no error aborts the batch.
func (r *Registry) BatchBuild(ctx context.Context, req BuildRequest) map[string]adapter.Result {
	names := req.Adapters
	if len(names) == 0 {
		names = r.Names()
	}
	names = dedupe(names)

	type built struct {
		name string
		res  adapter.Result
	}

	p := pool.NewWithResults[built]().WithMaxGoroutines(r.workers)
	for _, name := range names {
		p.Go(func() built {
			return built{name: name, res: r.buildOne(ctx, name, req, len(names) > 1)}
		})
	}

	out := make(map[string]adapter.Result, len(names))
	failed := 0
	for _, b := range p.Wait() {
		out[b.name] = b.res
		if !b.res.Success {
			failed++
		}
	}
	log.Info("batch build finished", "adapters", len(names), "failed", failed)
	return out
}

func (r *Registry) buildOne(ctx context.Context, name string, req BuildRequest, split bool) adapter.Result {
	a, err := r.Get(name)
	if err != nil {
		return runner.Invalid("%v", err)
	}
	t, ok := a.Tool(name + "_" + string(adapter.OpBuild))
	if !ok {
		return runner.Invalid("adapter %s has no build tool", name)
	}

	in := adapter.Input{"path": req.Source}
	if req.Output != "" {
		if _, ok := t.InputSchema().Properties["output"]; !ok {
			return runner.Invalid("adapter %s cannot set the build output directory", name)
		}
		out := req.Output
		if split {
			out = filepath.Join(out, name)
		}
		in["output"] = out
	}
	return t.Execute(ctx, in)
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
