package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lambda/internal/driver"
	"lambda/internal/eval"
	"lambda/internal/project"
)

// settings - lambda.toml, поверх которого уже наложены явно заданные флаги.
var settings = project.Defaults()

// loadSettings reads --config or the nearest lambda.toml and then applies
// persistent flags the user set explicitly.
func loadSettings(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg := project.Defaults()
	if configPath != "" {
		cfg, err = project.Load(configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, _, _, err = project.Discover(wd)
		}
	}
	if err != nil {
		return err
	}

	if flags.Changed("color") {
		value, _ := flags.GetString("color")
		cfg.Output.Color = strings.ToLower(strings.TrimSpace(value))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("--color: %w", err)
	}
	settings = cfg
	return nil
}

// useColor resolves [output].color for the given stream.
func useColor(f *os.File) bool {
	switch settings.Output.Color {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

// outputFormat returns --format when set, else [output].format.
func outputFormat(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Lookup("format") != nil && cmd.Flags().Changed("format") {
		return cmd.Flags().GetString("format")
	}
	return settings.Output.Format, nil
}

// pipelineOptions merges lambda.toml [eval] with eval flags of cmd.
func pipelineOptions(cmd *cobra.Command) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Eval:           eval.Options{MaxSteps: settings.Eval.MaxSteps},
		Timeout:        settings.Eval.Timeout.Duration,
	}
	mode, err := eval.ParseSubstMode(settings.Eval.Subst)
	if err != nil {
		return driver.Options{}, fmt.Errorf("[eval].subst: %w", err)
	}
	opts.Eval.Mode = mode

	flags := cmd.Flags()
	if flags.Lookup("max-steps") != nil && flags.Changed("max-steps") {
		steps, err := flags.GetInt("max-steps")
		if err != nil {
			return driver.Options{}, err
		}
		if steps < 0 {
			return driver.Options{}, fmt.Errorf("--max-steps must be >= 0, got %d", steps)
		}
		opts.Eval.MaxSteps = steps
	}
	if flags.Lookup("subst") != nil && flags.Changed("subst") {
		value, err := flags.GetString("subst")
		if err != nil {
			return driver.Options{}, fmt.Errorf("failed to get subst flag: %w", err)
		}
		mode, err := eval.ParseSubstMode(strings.TrimSpace(value))
		if err != nil {
			return driver.Options{}, fmt.Errorf("--subst: %w", err)
		}
		opts.Eval.Mode = mode
	}
	if flags.Lookup("timeout") != nil && flags.Changed("timeout") {
		timeout, err := flags.GetDuration("timeout")
		if err != nil {
			return driver.Options{}, err
		}
		opts.Timeout = timeout
	}
	return opts, nil
}

// addEvalFlags registers flags shared by eval and repl.
func addEvalFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-steps", 0, "stop after this many beta reductions (0 = unlimited)")
	cmd.Flags().String("subst", "textual", "substitution mode (textual|capture-avoiding)")
	cmd.Flags().Duration("timeout", 0, "abort a single evaluation after this duration (0 = none)")
}
