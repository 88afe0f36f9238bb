// Package catalog holds the static list of toolchain bindings the host
// exposes. Bindings are data; every adapter is the same generic
// adapter.Adapter instantiated from one of them.
package catalog

import (
	"fmt"
	"strconv"

	"github.com/sourcegraph/conc/pool"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/logger"
)

var log = logger.ForComponent("catalog")

type (
	Input      = adapter.Input
	Invocation = adapter.Invocation
	Operation  = adapter.Operation
)

// Bindings returns every binding in registration order. The slice is
// freshly built on each call.
func Bindings() []adapter.Binding {
	return []adapter.Binding{
		// rust
		zola(), cobalt(), mdbook(),
		// haskell
		hakyll(), ema(),
		// julia
		franklin(), documenter(), staticWebPages(),
		// elixir
		serum(), nimblePublisher(), tableau(),
		// clojure
		cryogen(), perun(), babashka(),
		// common lisp
		coleslaw(),
		// racket
		frog(), pollen(),
		// ml family
		yocaml(), fornax(),
		// scala
		laika(), scalatex(),
		// swift, kotlin
		publish(), orchid(),
		// nim, d, tcl, erlang, crystal
		nimrod(), reggae(), wub(), zotonic(), marmot(),
	}
}

// Names returns the adapter names in registration order.
func Names() []string {
	bindings := Bindings()
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
	}
	return names
}

// Selector decides whether a binding is loaded. A nil Selector loads all.
type Selector func(name string) bool

// Load builds an adapter for every selected binding. Construction runs
// concurrently; the returned slice keeps registration order.
func Load(exec adapter.Executor, sel Selector, opts ...adapter.Option) ([]*adapter.Adapter, error) {
	var bindings []adapter.Binding
	for _, b := range Bindings() {
		if sel == nil || sel(b.Name) {
			bindings = append(bindings, b)
		}
	}

	adapters := make([]*adapter.Adapter, len(bindings))
	p := pool.New().WithErrors()
	for i, b := range bindings {
		p.Go(func() error {
			a, err := adapter.New(b, exec, opts...)
			if err != nil {
				return fmt.Errorf("load %s: %w", b.Name, err)
			}
			adapters[i] = a
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	log.Debug("catalog loaded", "adapters", len(adapters))
	return adapters, nil
}

// Argument helpers. Every value is appended as its own argv token.

func opt(args []string, in Input, key, flag string) []string {
	if v := in.String(key); v != "" {
		return append(args, flag, v)
	}
	return args
}

func optJoined(args []string, in Input, key, prefix string) []string {
	if v := in.String(key); v != "" {
		return append(args, prefix+v)
	}
	return args
}

func optBool(args []string, in Input, key, flag string) []string {
	if in.Bool(key) {
		return append(args, flag)
	}
	return args
}

func optPort(args []string, in Input, flag string) []string {
	if port, ok := in.Int("port"); ok {
		return append(args, flag, strconv.Itoa(port))
	}
	return args
}

func siteName(in Input, fallback string) string {
	if name := in.String("name"); name != "" {
		return name
	}
	return fallback
}

// static returns an argument builder that always produces args and runs in
// the site directory.
func static(args ...string) adapter.ArgsFunc {
	return func(in Input) Invocation {
		return Invocation{Args: args, Dir: in.String("path")}
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
