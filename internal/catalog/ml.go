package catalog

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

// YOCaml sites are dune executables.
func yocaml() adapter.Binding {
	return adapter.Binding{
		Name:        "yocaml",
		Display:     "YOCaml",
		Language:    "ocaml",
		Description: "OCaml framework for building static site generators",
		Binary:      "dune",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"init", "project", siteName(in, "site"), in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				args := []string{"exec", "--", "./bin/site.exe", "build"}
				args = opt(args, in, "output", "--target")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				args := optPort([]string{"exec", "--", "./bin/site.exe", "serve"}, in, "--port")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpCheck, Args: static("build", "@check")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func fornax() adapter.Binding {
	return adapter.Binding{
		Name:        "fornax",
		Display:     "Fornax",
		Language:    "fsharp",
		Description: "F# scriptable static site generator",
		Binary:      "fornax",
		Probe:       []string{"version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: static("new")},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("build")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"watch"}, in, "--port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}
