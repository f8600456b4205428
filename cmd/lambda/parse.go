package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lambda/internal/ast"
	"lambda/internal/diagfmt"
	"lambda/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [file|-]",
	Short: "Parse an expression and print its syntax tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|text|json)")
	parseCmd.Flags().Int("max-depth", 0, "maximum nesting depth (0 = unlimited)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "text", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return fmt.Errorf("failed to get max-depth flag: %w", err)
	}
	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	opts.MaxDepth = maxDepth
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")

	in, err := readSingleInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	result := driver.ParseSource(cmd.Context(), in.name, in.src, opts)
	if timings {
		printTimings(os.Stderr, "", result.Timer)
	}
	if result.Err != nil {
		if err := printDiagnostics(result.Bag, result.FileSet, settings.Output.Format); err != nil {
			return err
		}
		return errReported
	}

	switch format {
	case "tree":
		return diagfmt.FormatTree(os.Stdout, result.Expr, result.FileSet)
	case "text":
		_, err = fmt.Fprintln(os.Stdout, ast.Print(result.Expr))
		return err
	default:
		return diagfmt.FormatTreeJSON(os.Stdout, result.Expr)
	}
}
