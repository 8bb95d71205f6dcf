package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/tempconv-service/internal/domain"
)

// ErrInvalidTemperature is returned by check for readings outside the
// physical range, so the process exits non-zero.
var ErrInvalidTemperature = errors.New("temperature is outside the physical range")

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <fahrenheit>",
		Short: "Report whether a Fahrenheit reading is physically plausible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse temperature %q: %w", args[0], err)
			}

			if !domain.IsPhysicallyValid(domain.Fahrenheit(f)) {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return ErrInvalidTemperature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
