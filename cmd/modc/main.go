// Package main is the entry point for the modc CLI.
package main

import (
	"os"

	"modelica-dae/cmd/modc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
