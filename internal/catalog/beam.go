package catalog

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

func mixEnv(in Input) []string {
	if in.Bool("drafts") {
		return []string{"MIX_ENV=dev"}
	}
	return []string{"MIX_ENV=prod"}
}

func serum() adapter.Binding {
	return adapter.Binding{
		Name:        "serum",
		Display:     "Serum",
		Language:    "elixir",
		Description: "Simple static website generator written in Elixir",
		Binary:      "mix",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"serum.new", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output", "drafts"), Args: func(in Input) Invocation {
				args := opt([]string{"serum.build"}, in, "output", "--output")
				return Invocation{Args: args, Dir: in.String("path"), Env: mixEnv(in)}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"serum.server"}, in, "--port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

// NimblePublisher is a library; sites are mix projects that compile their
// content at build time.
func nimblePublisher() adapter.Binding {
	return adapter.Binding{
		Name:        "nimble-publisher",
		Display:     "NimblePublisher",
		Language:    "elixir",
		Description: "Minimal filesystem-based publishing engine for Elixir with Markdown support",
		Binary:      "mix",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				args := opt([]string{"new", in.String("path")}, in, "name", "--app")
				return Invocation{Args: args}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "drafts"), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"compile", "--force"}, Dir: in.String("path"), Env: mixEnv(in)}
			}},
			{Op: adapter.OpCheck, Args: static("compile", "--warnings-as-errors")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func tableau() adapter.Binding {
	return adapter.Binding{
		Name:        "tableau",
		Display:     "Tableau",
		Language:    "elixir",
		Description: "Elixir static site generator with live reload and extensions",
		Binary:      "mix",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"tableau.new", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output", "drafts"), Args: func(in Input) Invocation {
				args := opt([]string{"tableau.build"}, in, "output", "--out")
				return Invocation{Args: args, Dir: in.String("path"), Env: mixEnv(in)}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				inv := Invocation{Args: []string{"tableau.server"}, Dir: in.String("path")}
				if port, ok := in.Int("port"); ok {
					inv.Env = []string{"PORT=" + itoa(port)}
				}
				return inv
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func zotonic() adapter.Binding {
	return adapter.Binding{
		Name:        "zotonic",
		Display:     "Zotonic",
		Language:    "erlang",
		Description: "Erlang web framework and CMS with static site export",
		Binary:      "zotonic",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"addsite", "-s", "blog", siteName(in, "site")}, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("compile")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe), Args: static("start")},
			{Op: adapter.OpCheck, Args: static("status")},
		},
	}
}
