package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lambda/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, line := range version.Lines(useColor(os.Stdout)) {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
				return err
			}
		}
		return nil
	},
}
