package cmd

import (
	"github.com/spf13/cobra"

	"modelica-dae/core/engine"
)

// flattenCmd runs lower and flatten only, printing the flattened class.
var flattenCmd = &cobra.Command{
	Use:   "flatten <source.json> [class-path]",
	Short: "Lower and flatten a class, printing the flattened IR",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		classPath, err := resolveClassPath(args)
		if err != nil {
			return err
		}
		result, err := runPipeline(cmd.Context(), args[0], classPath, engine.PhaseFlatten)
		if err != nil {
			return err
		}
		return emitJSON(result.Flat)
	},
}
