package catalog

import "github.com/hyperpolymath/qed-ssg/internal/adapter"

func cryogen() adapter.Binding {
	return adapter.Binding{
		Name:        "cryogen",
		Display:     "Cryogen",
		Language:    "clojure",
		Description: "Clojure static site generator driven by Leiningen",
		Binary:      "lein",
		Probe:       []string{"version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"new", "cryogen", siteName(in, "site")}, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("run")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe), Args: static("serve")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func perun() adapter.Binding {
	return adapter.Binding{
		Name:        "perun",
		Display:     "Perun",
		Language:    "clojure",
		Description: "Composable Clojure static site generator built on Boot tasks",
		Binary:      "boot",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"-d", "boot/new", "new", "-t", "perun", "-n", siteName(in, "site")}, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				args := []string{"build"}
				if out := in.String("output"); out != "" {
					args = append(args, "target", "-d", out)
				}
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe), Args: static("dev")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func babashka() adapter.Binding {
	return adapter.Binding{
		Name:        "babashka",
		Display:     "Babashka quickblog",
		Language:    "clojure",
		Description: "Blog generator run as babashka tasks",
		Binary:      "bb",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"quickblog", "new", "--file", siteName(in, "hello") + ".md"}, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "output"), Args: func(in Input) Invocation {
				args := opt([]string{"quickblog", "render"}, in, "output", "--out-dir")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				return Invocation{Args: optPort([]string{"quickblog", "serve"}, in, "--port"), Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func laika() adapter.Binding {
	return adapter.Binding{
		Name:        "laika",
		Display:     "Laika",
		Language:    "scala",
		Description: "Scala text markup transformer producing HTML, EPUB and PDF sites",
		Binary:      "sbt",
		Probe:       []string{"--script-version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"new", "scala/scala3.g8", "--name=" + siteName(in, "site")}, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("laikaSite")},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe), Args: static("laikaPreview")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func scalatex() adapter.Binding {
	return adapter.Binding{
		Name:        "scalatex",
		Display:     "Scalatex",
		Language:    "scala",
		Description: "Programmable Scala markup language for documentation sites",
		Binary:      "sbt",
		Probe:       []string{"--script-version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Args: func(in Input) Invocation {
				return Invocation{Args: []string{"new", "scala/scala-seed.g8", "--name=" + siteName(in, "site")}, Dir: in.String("path")}
			}},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild), Args: static("readme/run")},
			{Op: adapter.OpCheck, Args: static("readme/compile")},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}

func orchid() adapter.Binding {
	return adapter.Binding{
		Name:        "orchid",
		Display:     "Orchid",
		Language:    "kotlin",
		Description: "Kotlin documentation and static site generator run through Gradle",
		Binary:      "gradle",
		Probe:       []string{"--version"},
		Operations: []Operation{
			{Op: adapter.OpInit, Schema: adapter.Fields(adapter.OpInit), Args: static("init", "--type", "kotlin-application", "--dsl", "kotlin")},
			{Op: adapter.OpBuild, Schema: adapter.Fields(adapter.OpBuild, "base_url"), Args: func(in Input) Invocation {
				args := optJoined([]string{"orchidBuild"}, in, "base_url", "-PorchidBaseUrl=")
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpServe, Schema: adapter.Fields(adapter.OpServe, "port"), Args: func(in Input) Invocation {
				args := []string{"orchidServe"}
				if port, ok := in.Int("port"); ok {
					args = append(args, "-PorchidPort="+itoa(port))
				}
				return Invocation{Args: args, Dir: in.String("path")}
			}},
			{Op: adapter.OpClean, Schema: adapter.Fields(adapter.OpClean), Args: static("clean")},
		},
	}
}
