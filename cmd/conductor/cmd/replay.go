package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amirkhaki/conductor/pkg/trace"
)

var replayFile string

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "validate a recorded schedule trace file",
	Long: `replay parses a comma-separated schedule trace file and reports
its length, confirming it round-trips through pkg/trace unchanged —
the same trace text an Initialize request with strategyType=replay
would be given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(replayFile)
		if err != nil {
			return fmt.Errorf("reading trace file: %w", err)
		}

		t, err := trace.Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parsing trace: %w", err)
		}

		roundTripped := t.String()
		fmt.Printf("trace: %d entries\n", t.Len())
		fmt.Printf("round-trip matches input: %t\n", roundTripped == string(raw) || roundTripped == trimTrailingNewline(string(raw)))
		return nil
	},
}

func trimTrailingNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "",
		"path to a comma-separated schedule trace file")
	replayCmd.MarkFlagRequired("file")
}
