package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "repairshop",
	Short:         "Repair shop inventory and sales tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Root returns the root command (for tests and embedding).
func Root() *cobra.Command { return rootCmd }

// Execute applies registered commands and runs the CLI.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
