package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lambda/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Repl reads one expression per line and prints its normal form.
Parse errors are reported and the loop continues. Type :help for commands.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().String("ui", "auto", "interactive UI (auto|on|off)")
	replCmd.Flags().String("prompt", "", "prompt text (default from lambda.toml)")
	addEvalFlags(replCmd)
}

func runREPL(cmd *cobra.Command, _ []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cmd)
	if err != nil {
		return err
	}
	prompt := settings.REPL.Prompt
	if cmd.Flags().Changed("prompt") {
		prompt, _ = cmd.Flags().GetString("prompt")
	}

	session := &ui.Session{Opts: opts}
	switch {
	case shouldUseTUI(mode):
		return ui.RunREPL(cmd.Context(), session, prompt)
	case isTerminal(os.Stdin):
		return ui.RunLine(cmd.Context(), cmd.OutOrStdout(), session, ui.LineOptions{
			Prompt:      prompt,
			HistoryPath: historyPath(),
			Color:       useColor(os.Stdout),
		})
	}
	return ui.RunPlain(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), session, ui.PlainOptions{
		Prompt:     prompt,
		Color:      useColor(os.Stdout),
	})
}

// historyPath returns ~/.lambda_history, or "" when there is no home directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lambda_history")
}
