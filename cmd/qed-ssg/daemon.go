package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/qed-ssg/internal/daemon"
)

func newDaemonCmd(opts *options) *cobra.Command {
	daemonCmd := &cobra.Command{Use: "daemon", Short: "Run or query the socket daemon"}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Serve MCP on the daemon unix socket until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			h, err := newHost(cfg)
			if err != nil {
				return err
			}
			defer h.Close()
			h.watch(cmd.Context(), cfg)

			return daemon.New(cfg.Daemon.Dir, cfg.Daemon.SocketPath, h.handler()).Run(cmd.Context())
		},
	}

	var timeout time.Duration
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the daemon answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			start := time.Now()
			client, err := daemon.Dial(ctx, cfg.Daemon.SocketPath)
			if err != nil {
				return &exitError{code: 1, msg: err.Error()}
			}
			defer client.Close()

			res, err := client.Initialize(ctx, "qed-ssg-cli")
			if err != nil {
				return err
			}
			if err := client.Ping(ctx); err != nil {
				return err
			}
			fmt.Printf("%s %s on %s (%s)\n", res.ServerInfo.Name, res.ServerInfo.Version,
				cfg.Daemon.SocketPath, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	pingCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "how long to wait for the daemon")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon PID and socket state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := daemon.Inspect(opts.cfg.Daemon.Dir, opts.cfg.Daemon.SocketPath)
			if err != nil {
				return err
			}
			return printJSON(st)
		},
	}

	daemonCmd.AddCommand(runCmd, pingCmd, statusCmd)
	return daemonCmd
}
