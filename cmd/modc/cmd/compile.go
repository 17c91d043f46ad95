package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelica-dae/core/engine"
)

// compileCmd represents the compile command: the full lower -> flatten ->
// partition pipeline, with the requested stage's artifact printed.
var compileCmd = &cobra.Command{
	Use:   "compile <source.json> [class-path]",
	Short: "Run the full pipeline and print the resulting artifact",
	Long: `Lower the source tree, flatten the named class, and partition it into a
DAE, printing the selected stage's result as JSON.

<source.json> is a file holding a JSON-serialized grammar.StoredDefinition,
the form an external Modelica parser's output takes for this driver.
[class-path] is the dotted path of the class to compile, navigating nested
classes (e.g. Package.Model); when omitted, the project file's
default_class is used.

Examples:
  modc compile model.json Package.Model
  modc compile --emit flat model.json Package.Model`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompileCmd,
}

var emitStage string

func init() {
	compileCmd.Flags().StringVar(&emitStage, "emit", "dae", "artifact to print (lowered, flat, dae)")
}

func runCompileCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sourcePath := args[0]
	classPath, err := resolveClassPath(args)
	if err != nil {
		return err
	}

	switch emitStage {
	case "dae":
		result, err := runCompile(ctx, sourcePath, classPath)
		if err != nil {
			return err
		}
		return emitJSON(result.Dae)
	case "flat":
		result, err := runPipeline(ctx, sourcePath, classPath, engine.PhaseFlatten)
		if err != nil {
			return err
		}
		return emitJSON(result.Flat)
	case "lowered":
		result, err := runPipeline(ctx, sourcePath, classPath, engine.PhaseLower)
		if err != nil {
			return err
		}
		return emitJSON(result.Lowered)
	default:
		return fmt.Errorf("unknown --emit value %q (want lowered, flat, or dae)", emitStage)
	}
}
