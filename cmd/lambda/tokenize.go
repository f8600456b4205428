package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lambda/internal/diagfmt"
	"lambda/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] [file|-]",
	Short: "Print the token stream of an expression",
	Long:  `Tokenize splits the input into LAMBDA, DOT, PAREN_LEFT, PAREN_RIGHT and NAME tokens followed by EOF`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	in, err := readSingleInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	result := driver.TokenizeSource(in.name, in.src, maxDiagnostics)
	if err := printDiagnostics(result.Bag, result.FileSet, settings.Output.Format); err != nil {
		return err
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
