package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/qed-ssg/internal/logger"
	"github.com/hyperpolymath/qed-ssg/internal/mcp"
)

var log = logger.ForComponent("cli")

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			h, err := newHost(opts.cfg)
			if err != nil {
				return err
			}
			defer h.Close()
			h.watch(ctx, opts.cfg)

			log.Info("serving on stdio", "adapters", len(h.adapters.List()), "tools", len(h.tools.Names()))
			err = h.handler().Serve(ctx, mcp.Stdio(os.Stdin, os.Stdout))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
