package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lambda/internal/diagfmt"
	"lambda/internal/driver"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] [files...|-]",
	Short: "Reduce expressions to normal form",
	Long: `Eval parses each input and reduces it to normal form by repeated beta
reduction. Inputs come from -e, from files, or from stdin when neither is given.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringArrayP("expr", "e", nil, "evaluate an expression given on the command line (repeatable)")
	evalCmd.Flags().Bool("steps", false, "report the number of reductions for each input")
	evalCmd.Flags().Int("jobs", 0, "max parallel evaluations for multiple files (0=auto)")
	evalCmd.Flags().Bool("cache", false, "reuse normal forms from the on-disk cache")
	evalCmd.Flags().Bool("cache-clear", false, "drop the on-disk cache before evaluating")
	evalCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	evalCmd.Flags().String("ui", "auto", "progress UI for multiple files (auto|on|off)")
	addEvalFlags(evalCmd)
}

// evalOutput - одна JSON-строка на вход в режиме --format json.
type evalOutput struct {
	Input       string                    `json:"input"`
	Result      string                    `json:"result,omitempty"`
	Steps       int                       `json:"steps"`
	Captures    int                       `json:"captures,omitempty"`
	Cached      bool                      `json:"cached,omitempty"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type evalFlags struct {
	steps   bool
	quiet   bool
	timings bool
	format  string
}

func runEval(cmd *cobra.Command, args []string) error {
	exprs, err := cmd.Flags().GetStringArray("expr")
	if err != nil {
		return fmt.Errorf("failed to get expr flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	var ef evalFlags
	ef.steps, _ = cmd.Flags().GetBool("steps")
	ef.quiet, _ = cmd.Root().PersistentFlags().GetBool("quiet")
	ef.timings, _ = cmd.Root().PersistentFlags().GetBool("timings")
	if ef.format, err = outputFormat(cmd); err != nil {
		return err
	}
	if ef.format != "pretty" && ef.format != "json" {
		return fmt.Errorf("unknown format: %s", ef.format)
	}

	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	if opts.Cache, err = openCache(cmd, ef.quiet); err != nil {
		return err
	}

	ctx := cmd.Context()
	var results []namedResult
	for i, expr := range exprs {
		name := "<expr>"
		if len(exprs) > 1 {
			name = fmt.Sprintf("<expr %d>", i+1)
		}
		results = append(results, namedResult{name, driver.EvaluateSource(ctx, name, expr, opts)})
	}

	var files []string
	for _, arg := range args {
		if arg == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			results = append(results, namedResult{"<stdin>", driver.EvaluateSource(ctx, "<stdin>", string(data), opts)})
			continue
		}
		files = append(files, arg)
	}
	if len(exprs) == 0 && len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		results = append(results, namedResult{"<stdin>", driver.EvaluateSource(ctx, "<stdin>", string(data), opts)})
	}

	if len(files) > 0 {
		batch := driver.BatchOptions{Options: opts, Jobs: jobs}
		var fileResults []*driver.EvalResult
		if len(files) > 1 && !ef.quiet && shouldUseTUI(mode) {
			_, fileResults, err = evalFilesWithUI(ctx, "eval", files, batch)
		} else {
			_, fileResults, err = driver.EvalFiles(ctx, files, batch)
		}
		for i, res := range fileResults {
			if res != nil {
				results = append(results, namedResult{files[i], res})
			}
		}
		if err != nil {
			printResults(results, ef)
			return err
		}
	}

	if failed := printResults(results, ef); failed {
		return errReported
	}
	return nil
}

type namedResult struct {
	name string
	res  *driver.EvalResult
}

// printResults writes normal forms to stdout and diagnostics to stderr.
// It reports whether any input failed.
func printResults(results []namedResult, ef evalFlags) bool {
	failed := false
	prefix := len(results) > 1
	for _, nr := range results {
		res := nr.res
		if res.Err != nil {
			failed = true
		}
		if ef.timings {
			printTimings(os.Stderr, nr.name, res.Timer)
		}
		if ef.format == "json" {
			out := evalOutput{
				Input:       nr.name,
				Result:      res.Text,
				Steps:       res.Stats.Steps,
				Captures:    res.Stats.Captures,
				Cached:      res.Cached,
				Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{IncludePositions: true}),
			}
			data, err := json.Marshal(out)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				failed = true
				continue
			}
			fmt.Fprintln(os.Stdout, string(data))
			continue
		}

		if res.Err != nil || !ef.quiet {
			if err := printDiagnostics(res.Bag, res.FileSet, ef.format); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		}
		if res.Err != nil {
			continue
		}
		line := res.Text
		if prefix {
			line = nr.name + ": " + line
		}
		fmt.Fprintln(os.Stdout, line)
		if ef.steps {
			fmt.Fprintln(os.Stderr, stepsLine(nr.name, res))
		}
	}
	return failed
}

func stepsLine(name string, res *driver.EvalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d step(s)", name, res.Stats.Steps)
	if res.Cached {
		b.WriteString(", cached")
	} else {
		fmt.Fprintf(&b, ", max stack %d", res.Stats.MaxStack)
	}
	if res.Stats.Captures > 0 {
		fmt.Fprintf(&b, ", %d capture(s)", res.Stats.Captures)
	}
	return b.String()
}

func openCache(cmd *cobra.Command, quiet bool) (*driver.ResultCache, error) {
	useCache, _ := cmd.Flags().GetBool("cache")
	clearCache, _ := cmd.Flags().GetBool("cache-clear")
	if !useCache && !clearCache {
		return nil, nil
	}
	cache, err := driver.OpenResultCache("lambda")
	if err != nil {
		if !quiet {
			fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", err)
		}
		return nil, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache %s: %w", cache.Dir(), err)
		}
	}
	if !useCache {
		return nil, nil
	}
	return cache, nil
}
