// Package cmd implements the conductor CLI's command tree: serve,
// replay, and analyze, each subcommand registering itself on rootCmd
// from its own init().
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "conductor",
	Short: "Remote controlled-concurrency scheduler",
	Long: `conductor runs the controlled-concurrency scheduler described by
the project's wire contract: serve exposes it over WebSocket, replay
validates a previously recorded schedule trace, and analyze summarizes
trace length across a batch of recorded iterations.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
