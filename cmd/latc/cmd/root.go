package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "latc",
	Short: "Lat/Tox single-pass compiler",
	Long: `latc compiles Lat/Tox source to textual EWVM assembly.

Lat/Tox is a small statically typed imperative language: integers,
floats, filums (strings), pointers and fixed-size vectors, functions,
and the usual control-flow statements. Compilation is single-pass and
grammar-directed -- there is no separate AST or type-checking stage.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
