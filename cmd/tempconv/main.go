package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/tempconv-service/cmd/tempconv/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !errors.Is(err, commands.ErrInvalidTemperature) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
