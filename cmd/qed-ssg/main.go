package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/qed-ssg/internal/config"
	"github.com/hyperpolymath/qed-ssg/internal/logger"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}

	var ex ExitCoder
	if errors.As(err, &ex) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		stop()
		os.Exit(ex.ExitCode())
	}
	fmt.Fprintln(os.Stderr, err)
	stop()
	os.Exit(1)
}

type options struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "qed-ssg",
		Short:         "One MCP tool surface over 28 static site generators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if opts.logLevel != "" {
				if _, err := logger.ParseLevel(opts.logLevel); err != nil {
					return err
				}
				cfg.Log.Level = opts.logLevel
			}
			logger.Init(cfg.LoggerConfig())
			opts.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML or YAML config file (default $"+config.EnvConfig+")")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error (default $"+config.EnvLogLevel+")")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newDaemonCmd(opts))
	cmd.AddCommand(newAdaptersCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newBuildAllCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
