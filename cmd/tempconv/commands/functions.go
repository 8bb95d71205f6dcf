package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/tempconv-service/internal/binding"
)

func functionsCmd(registry *binding.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the exposed functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tARITY\tDESCRIPTION")
			for _, fn := range registry.Functions() {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", fn.Name, fn.Arity, fn.Doc)
			}
			return tw.Flush()
		},
	}
}
