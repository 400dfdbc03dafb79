package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/latc/internal/compiler"
	"github.com/spf13/cobra"
)

var (
	outputFile    string
	compileColor  bool
	printToStdout bool
	disassemble   bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Lat/Tox source file to EWVM assembly",
	Long: `Compile a Lat/Tox program and save the emitted EWVM assembly as a .vm file.

Examples:
  # Compile a program to its default output file
  latc compile program.lt

  # Compile with a custom output file
  latc compile program.lt -o program.vm

  # Print the assembly to stdout instead of writing a file
  latc compile program.lt --stdout

  # Print the emitted assembly to stderr alongside the usual output file
  latc compile program.lt --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.vm)")
	compileCmd.Flags().BoolVar(&compileColor, "color", true, "colorize error output")
	compileCmd.Flags().BoolVar(&printToStdout, "stdout", false, "print assembly to stdout instead of writing a file")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print the emitted assembly to stderr")
}

func compileScript(cmd *cobra.Command, args []string) error {
	filename := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	asm, stats, cerr := compiler.CompileWithStats(source, filename)
	if cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.Format(compileColor))
		return fmt.Errorf("compilation failed")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "functions compiled: %d\n", stats.Functions)
		fmt.Fprintf(os.Stderr, "global cells:        %d\n", stats.GlobalCells)
		fmt.Fprintf(os.Stderr, "loops emitted:        %d\n", stats.Loops)
		fmt.Fprintf(os.Stderr, "if-chains emitted:    %d\n", stats.IfChains)
	}
	if disassemble {
		fmt.Fprint(os.Stderr, asm)
	}

	if printToStdout {
		fmt.Print(asm)
		return nil
	}

	outFile := outputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".vm"
		} else {
			outFile = filename + ".vm"
		}
	}

	if err := os.WriteFile(outFile, []byte(asm), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	return nil
}
