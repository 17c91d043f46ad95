// Package cmd provides the CLI commands for modc.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modelica-dae/internal/config"
	"modelica-dae/internal/errors"
	"modelica-dae/internal/logging"
)

var (
	cfgFile     string
	projectFile string
	verbose     bool

	// project holds the loaded modc.hcl project file, if any; subcommands
	// fall back to its DefaultClass when the class-path argument is omitted.
	project *config.ProjectConfig
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "modc",
	Short: "Compile Modelica classes to partitioned DAE systems",
	Long: `modc lowers a parsed Modelica syntax tree into the IR, flattens a chosen
class (inheritance, inline expansion, name mangling), and partitions the
flattened class into a DAE's p/cp/t/x/y/u/z/m buckets.

The parser itself is an external collaborator: modc's source argument is a
JSON file holding the grammar-level syntax tree an external parser already
produced, not Modelica source text.

Examples:
  modc compile model.json Package.Model
  modc flatten model.json Package.Model
  modc partition model.json Package.Model`,
}

// Execute runs the CLI, printing a single-line diagnostic to stderr on
// failure per the driver contract rather than cobra's default usage dump.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(err))
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "JSON config file (built-in defaults when not given)")
	rootCmd.PersistentFlags().StringVar(&projectFile, "project", "modc.hcl", "project file (modc.hcl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(partitionCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}

	p, err := config.LoadProjectFile(projectFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project file: %v\n", err)
		os.Exit(1)
	}
	project = p
}

// resolveClassPath returns the class-path argument when given, else the
// project file's default_class. It errors when neither is set.
func resolveClassPath(args []string) (string, error) {
	if len(args) > 1 && args[1] != "" {
		return args[1], nil
	}
	if project != nil && project.DefaultClass != "" {
		return project.DefaultClass, nil
	}
	return "", errors.Config("no class path given and no default_class in project file", nil)
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("modc version 0.1.0")
	},
}
