package catalog

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

// Hakyll sites are Haskell programs; the generator is the project's own
// "site" executable run through stack.
func hakyll() adapter.Binding {
	return adapter.Binding{
		Name:        "hakyll",
		Display:     "Hakyll",
		Language:    "haskell",
		Description: "Haskell library for generating static sites via compiled site programs",
		Binary:      "stack",
		Probe:       []string{"--numeric-version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"new", siteName(in, "site"), "hakyll-template", "--bare"}, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("exec", "site", "--", "build")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				args := optPort([]string{"exec", "site", "--", "watch"}, in, "--port")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpCheck, Args: static("exec", "site", "--", "check")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("exec", "site", "--", "clean")},
		},
	}
}

func ema() adapter.Binding {
	return adapter.Binding{
		Name:        "ema",
		Display:     "Ema",
		Language:    "haskell",
		Description: "Haskell static site generator with hot reload, built as a cabal project",
		Binary:      "cabal",
		Probe:       []string{"--numeric-version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				args := []string{"init", "--non-interactive", "--exe", "--package-name", siteName(in, "site")}
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				args := []string{"run", "--", "gen"}
				if out := in.String("output"); out != "" {
					args = append(args, out)
				} else {
					args = append(args, "output")
				}
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				args := optPort([]string{"run", "--", "run"}, in, "--port")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}
