// Package commands implements the tempconv command-line interface. Every
// subcommand goes through the same function registry the service exposes.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/tempconv-service/internal/binding"
)

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the tempconv command tree. The CLI applies no count limit.
func NewRootCmd() *cobra.Command {
	registry := binding.NewRegistry()

	root := &cobra.Command{
		Use:           "tempconv",
		Short:         "Temperature conversion and validation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		functionsCmd(registry),
		callCmd(registry),
		convertCmd(registry),
		checkCmd(),
		versionCmd(),
	)
	return root
}
