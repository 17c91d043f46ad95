package cmd

import (
	"github.com/spf13/cobra"
)

// partitionCmd runs the full pipeline and prints the partitioned DAE,
// serving from and filling the artifact cache like compile's default
// --emit dae.
var partitionCmd = &cobra.Command{
	Use:   "partition <source.json> [class-path]",
	Short: "Run the full pipeline and print the partitioned DAE",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		classPath, err := resolveClassPath(args)
		if err != nil {
			return err
		}
		result, err := runCompile(cmd.Context(), args[0], classPath)
		if err != nil {
			return err
		}
		return emitJSON(result.Dae)
	},
}
