package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/tempconv-service/internal/binding"
)

func callCmd(registry *binding.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "call <name> [json-arg...]",
		Short: "Invoke an exposed function with JSON arguments",
		Example: `  tempconv call f_to_celsius 212
  tempconv call f_to_c_vector '[32, 212]'
  tempconv call count 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs := make([]json.RawMessage, 0, len(args)-1)
			for i, a := range args[1:] {
				if !json.Valid([]byte(a)) {
					return fmt.Errorf("argument %d is not valid JSON: %q", i+1, a)
				}
				callArgs = append(callArgs, json.RawMessage(a))
			}
			return invoke(cmd.OutOrStdout(), registry, args[0], callArgs)
		},
	}
}

// invoke calls name and prints its JSON result. Functions without a result
// (count) print only their own output.
func invoke(w io.Writer, registry *binding.Registry, name string, args []json.RawMessage) error {
	result, err := registry.Call(name, args, w)
	if err != nil {
		return err
	}
	if bytes.Equal(result, []byte("null")) {
		return nil
	}
	_, err = fmt.Fprintln(w, string(result))
	return err
}
