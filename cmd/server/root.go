package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd runs the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "dmchat",
	Short: "One-to-one chat server",
	Long: `dmchat serves the REST API and WebSocket endpoint for one-to-one
conversations. Configuration is read from the environment and an optional
.env file in the working directory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
