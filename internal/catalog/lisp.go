package catalog

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

func coleslaw() adapter.Binding {
	return adapter.Binding{
		Name:        "coleslaw",
		Display:     "Coleslaw",
		Language:    "common-lisp",
		Description: "Flexible Common Lisp blogware in the style of Jekyll",
		Binary:      "coleslaw",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: static("setup")},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("generate")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe), Args: static("preview")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func frog() adapter.Binding {
	return adapter.Binding{
		Name:        "frog",
		Display:     "Frog",
		Language:    "racket",
		Description: "Racket static blog generator with Bootstrap and Pygments",
		Binary:      "raco",
		Probe:       []string{"frog", "--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: static("frog", "--init")},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("frog", "--build")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"frog", "--serve"}, in, "--port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("frog", "--clean")},
		},
	}
}

func pollen() adapter.Binding {
	return adapter.Binding{
		Name:        "pollen",
		Display:     "Pollen",
		Language:    "racket",
		Description: "Racket publishing system for programmable digital books",
		Binary:      "raco",
		Probe:       []string{"pollen", "version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"pollen", "setup", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				path := in.String("path")
				if out := in.String("output"); out != "" {
					return Invocation{Args: []string{"pollen", "publish", path, out}}
				}
				return Invocation{Args: []string{"pollen", "render", "-r", path}}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				args := []string{"pollen", "start", in.String("path")}
				if port, ok := in.Int("port"); ok {
					args = append(args, itoa(port))
				}
				return Invocation{Args: args}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"pollen", "reset", in.String("path")}}
			}},
		},
	}
}
