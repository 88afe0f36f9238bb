package catalog

import (
	"path/filepath"
	"strconv"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
)

// The Julia generators are packages driven through fixed expressions. User
// input reaches them only through ARGS, never by editing the expression.

func julia(expr string, args ...string) []string {
	return append([]string{"--startup-file=no", "-e", expr}, args...)
}

func franklin() adapter.Binding {
	return adapter.Binding{
		Name:        "franklin",
		Display:     "Franklin.jl",
		Language:    "julia",
		Description: "Julia static site generator with LaTeX-like commands and code evaluation",
		Binary:      "julia",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: julia(`using Franklin; newsite(ARGS[1]; template="basic", cd=false)`, in.String("path"))}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: func(in Input) Invocation {
				return Invocation{Args: julia(`using Franklin; optimize(minify=false, prerender=false)`), Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				port := "8000"
				if p, ok := in.Int("port"); ok {
					port = strconv.Itoa(p)
				}
				return Invocation{Args: julia(`using Franklin; serve(port=parse(Int, ARGS[1]), launch=false)`, port), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: func(in Input) Invocation {
				return Invocation{Args: julia(`rm("__site"; force=true, recursive=true)`), Dir: in.String("path")}
			}},
		},
	}
}

func documenter() adapter.Binding {
	return adapter.Binding{
		Name:        "documenter",
		Display:     "Documenter.jl",
		Language:    "julia",
		Description: "Documentation generator for Julia packages",
		Binary:      "julia",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: julia(`using DocumenterTools; DocumenterTools.generate(ARGS[1])`, filepath.Join(in.String("path"), "docs"))}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("--project=docs", "docs/make.jl")},
			{Op: adapter.OpCheck, Description: "Run the test suite of a Julia package", Args: static(append([]string{"--project=."}, julia(`using Pkg; Pkg.test()`)...)...)},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: func(in Input) Invocation {
				return Invocation{Args: julia(`rm(joinpath("docs", "build"); force=true, recursive=true)`), Dir: in.String("path")}
			}},
		},
	}
}

func staticWebPages() adapter.Binding {
	return adapter.Binding{
		Name:        "staticwebpages",
		Display:     "StaticWebPages.jl",
		Language:    "julia",
		Description: "Julia generator for personal academic websites",
		Binary:      "julia",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: julia(`mkpath(ARGS[1]); touch(joinpath(ARGS[1], "content.jl"))`, in.String("path"))}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static(julia(`using StaticWebPages; include("content.jl"); generate_website()`)...)},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: func(in Input) Invocation {
				return Invocation{Args: julia(`rm("site"; force=true, recursive=true)`), Dir: in.String("path")}
			}},
		},
	}
}
