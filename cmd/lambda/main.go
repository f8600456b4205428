package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lambda/internal/prof"
	"lambda/internal/version"
)

// errReported означает, что диагностика уже напечатана; нужен только код выхода.
var errReported = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Untyped lambda calculus interpreter",
	Long: `lambda reduces untyped lambda calculus expressions to normal form.

  \x.body     function
  (f a)       application
  name        variable`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  preRun,
	PersistentPostRunE: postRun,
}

// main registers subcommands and persistent flags and executes the root
// command. Any error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	addPersistentFlags(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	// PostRun не вызывается, если команда вернула ошибку
	if cleanupErr := postRun(rootCmd, nil); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, "error:", cleanupErr)
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// addPersistentFlags registers the global flags shared by every subcommand.
func addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 64, "maximum number of diagnostics to show")
	flags.String("config", "", "path to lambda.toml (default: search upward from the working directory)")
	addTraceFlags(cmd)
	addProfileFlags(cmd)
}

func preRun(cmd *cobra.Command, _ []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	profiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	profSession = profiling
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup
	return nil
}

func postRun(_ *cobra.Command, _ []string) error {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	err := profSession.Stop()
	profSession = nil
	return err
}

var (
	traceCleanup func()
	profSession  *prof.Session
)

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
