package catalog

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

func zola() adapter.Binding {
	return adapter.Binding{
		Name:        "zola",
		Display:     "Zola",
		Language:    "rust",
		Description: "Fast single-binary static site generator with Tera templates",
		Binary:      "zola",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"init", "--force", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Args: func(in Input) Invocation {
				args := []string{"--root", in.String("path"), "build"}
				args = opt(args, in, "output", "--output-dir")
				args = opt(args, in, "base_url", "--base-url")
				args = optBool(args, in, "drafts", "--drafts")
				return Invocation{Args: args}
			}},
			{Op: adapter.OpServe, Args: func(in Input) Invocation {
				args := []string{"--root", in.String("path"), "serve"}
				args = optPort(args, in, "--port")
				args = optBool(args, in, "drafts", "--drafts")
				return Invocation{Args: args}
			}},
			{Op: adapter.OpCheck, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"--root", in.String("path"), "check"}}
			}},
		},
	}
}

func cobalt() adapter.Binding {
	return adapter.Binding{
		Name:        "cobalt",
		Display:     "Cobalt",
		Language:    "rust",
		Description: "Static site generator with Liquid templates and Markdown content",
		Binary:      "cobalt",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: func(in Input) Invocation {
				return Invocation{Args: []string{"init", in.String("path")}}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output", "drafts"), Args: func(in Input) Invocation {
				args := opt([]string{"build"}, in, "output", "--destination")
				args = optBool(args, in, "drafts", "--drafts")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Args: func(in Input) Invocation {
				args := optPort([]string{"serve"}, in, "--port")
				args = optBool(args, in, "drafts", "--drafts")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func mdbook() adapter.Binding {
	return adapter.Binding{
		Name:        "mdbook",
		Display:     "mdBook",
		Language:    "rust",
		Description: "Create books and documentation sites from Markdown",
		Binary:      "mdbook",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				args := []string{"init", in.String("path"), "--force", "--ignore", "none"}
				args = opt(args, in, "name", "--title")
				return Invocation{Args: args}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				args := opt([]string{"build", in.String("path")}, in, "output", "--dest-dir")
				return Invocation{Args: args}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"serve", in.String("path")}, in, "--port")}
			}},
			{Op: adapter.OpCheck, Description: "Test the Rust code samples of an mdBook", Args: func(in Input) Invocation {
				return Invocation{Args: []string{"test", in.String("path")}}
			}},
			{Op: adapter.OpClean, Args: func(in Input) Invocation {
				return Invocation{Args: opt([]string{"clean", in.String("path")}, in, "output", "--dest-dir")}
			}},
		},
	}
}
