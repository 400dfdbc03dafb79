package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/latc/internal/lexer"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Lat/Tox source file and print its tokens",
	Long: `Run only the lexer over a Lat/Tox file and print one token per line.

Useful for debugging the lexer in isolation without running the full
compiler pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: lexFile,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func lexFile(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	l := lexer.New(string(content))
	for {
		tok := l.NextToken()
		fmt.Printf("%4d:%-3d %-16s %q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
		if tok.Type == lexer.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "lex error: %s at %d:%d\n", e.Message, e.Pos.Line, e.Pos.Column)
		}
		return fmt.Errorf("lexing found %d error(s)", len(errs))
	}
	return nil
}
