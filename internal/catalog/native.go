package catalog

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

func publish() adapter.Binding {
	return adapter.Binding{
		Name:        "publish",
		Display:     "Publish",
		Language:    "swift",
		Description: "Static site generator for Swift developers with type-safe themes",
		Binary:      "publish",
		Probe:       []string{"help"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: static("new")},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("generate")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"run"}, in, "--port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpCheck, Description: "Build a Publish site package without generating", Args: static("deploy", "--dry-run")},
		},
	}
}

func nimrod() adapter.Binding {
	return adapter.Binding{
		Name:        "nimrod",
		Display:     "Nimrod",
		Language:    "nim",
		Description: "Static site generator written in Nim",
		Binary:      "nimrod",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"init", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output", "drafts"), Args: func(in Input) Invocation {
				args := opt([]string{"build"}, in, "output", "--output")
				args = optBool(args, in, "drafts", "--drafts")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"serve"}, in, "--port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

// Reggae is a D build system; sites are described in a reggaefile that
// drives the generator through a ninja backend.
func reggae() adapter.Binding {
	return adapter.Binding{
		Name:        "reggae",
		Display:     "Reggae",
		Language:    "d",
		Description: "D build system generating site pipelines through build backends",
		Binary:      "reggae",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: static("--dub-config=default")},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("-b", "binary", "--build")},
			{Op: adapter.OpCheck, Args: static("-b", "binary", "--dry-run")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("-b", "binary", "clean")},
		},
	}
}

func wub() adapter.Binding {
	return adapter.Binding{
		Name:        "wub",
		Display:     "Wub",
		Language:    "tcl",
		Description: "Tcl web server with a static site mode",
		Binary:      "wub",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"init", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				return Invocation{Args: opt([]string{"static"}, in, "output", "--docroot"), Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"serve"}, in, "--listener_port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func marmot() adapter.Binding {
	return adapter.Binding{
		Name:        "marmot",
		Display:     "Marmot",
		Language:    "crystal",
		Description: "Crystal static site generator",
		Binary:      "marmot",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"init", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				args := opt([]string{"build"}, in, "output", "--output")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"serve"}, in, "--port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}
