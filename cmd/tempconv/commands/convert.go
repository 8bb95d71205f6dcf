package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/tempconv-service/internal/binding"
	"github.com/couchcryptid/tempconv-service/internal/gridfile"
)

func convertCmd(registry *binding.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a JSON, YAML, or TOML file of Fahrenheit readings to Celsius",
		Long: `Convert a file holding either a flat list ("values") or a grid ("rows")
of Fahrenheit readings. Lists go through f_to_c_vector and grids through
f_to_c_matrix; the result is printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := gridfile.Load(args[0])
			if err != nil {
				return err
			}

			name := binding.FToCVector
			var payload any = doc.Values
			if doc.IsGrid() {
				name = binding.FToCMatrix
				payload = doc.Rows
			}

			arg, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("encode %s argument: %w", name, err)
			}
			return invoke(cmd.OutOrStdout(), registry, name, []json.RawMessage{arg})
		},
	}
}
