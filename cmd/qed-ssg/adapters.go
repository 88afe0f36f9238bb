package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/qed-ssg/internal/adapter"
	"github.com/hyperpolymath/qed-ssg/internal/registry"
)

func newAdaptersCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "adapters",
		Aliases: []string{"ls", "list"},
		Short:   "List the loaded adapters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHost(opts.cfg)
			if err != nil {
				return err
			}
			defer h.Close()

			infos := h.adapters.Infos()
			if jsonOutput {
				return printJSON(infos)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLANGUAGE\tBINARY\tTOOLS")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", info.Name, info.Language, info.Binary, len(info.Tools))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}

func newStatusCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status [name...]",
		Short: "Probe adapters and report whether their toolchain is installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := newHost(opts.cfg)
			if err != nil {
				return err
			}
			defer h.Close()

			names := args
			if len(names) == 0 {
				h.adapters.ConnectAll(cmd.Context())
				names = h.adapters.Names()
			}

			statuses := make(map[string]adapter.Status, len(names))
			for _, name := range names {
				st, err := h.adapters.Status(cmd.Context(), name, len(args) > 0)
				if err != nil {
					return err
				}
				statuses[name] = st
			}

			if jsonOutput {
				return printJSON(statuses)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATE\tVERSION")
			for _, name := range names {
				st := statuses[name]
				v := st.Version
				if v == "" {
					v = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, st.State, v)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}

func newRunCmd(opts *options) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "run <tool>",
		Short: "Invoke one tool and print its result as JSON",
		Example: `  qed-ssg run zola_version
  qed-ssg run zola_build --input '{"path":"./site","drafts":true}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(input)) {
				return &exitError{code: 2, msg: "--input is not valid JSON"}
			}

			h, err := newHost(opts.cfg)
			if err != nil {
				return err
			}
			defer h.Close()

			out, err := h.tools.Execute(cmd.Context(), args[0], json.RawMessage(input))
			if err != nil {
				return err
			}
			if err := printJSON(out); err != nil {
				return err
			}

			if res, ok := out.(adapter.Result); ok && !res.Success {
				return &exitError{code: res.Code}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "{}", "tool arguments as a JSON object")
	return cmd
}

func newBuildAllCmd(opts *options) *cobra.Command {
	var req registry.BuildRequest

	cmd := &cobra.Command{
		Use:   "build-all",
		Short: "Build one source tree with several generators concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Source) == "" {
				return &exitError{code: 2, msg: "--source is required"}
			}

			h, err := newHost(opts.cfg)
			if err != nil {
				return err
			}
			defer h.Close()

			results := h.adapters.BatchBuild(cmd.Context(), req)
			if err := printJSON(results); err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if !res.Success {
					failed++
				}
			}
			if failed > 0 {
				return &exitError{code: 1, msg: fmt.Sprintf("%d of %d builds failed", failed, len(results))}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Source, "source", "", "site source directory")
	cmd.Flags().StringVar(&req.Output, "output", "", "output directory; split per adapter when building with more than one")
	cmd.Flags().StringSliceVar(&req.Adapters, "adapter", nil, "adapter to build with (repeatable, default all)")
	return cmd
}
