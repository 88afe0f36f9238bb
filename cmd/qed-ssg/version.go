package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hyperpolymath/qed-ssg/internal/catalog"
	"github.com/hyperpolymath/qed-ssg/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%s %s\nprotocol: %s\nadapters: %d\ngo: %s\n",
				version.ServerName, version.Version, version.ProtocolVersion,
				len(catalog.Names()), runtime.Version())
			return nil
		},
	}
}
