package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirkhaki/conductor/internal/analysis"
	"github.com/amirkhaki/conductor/pkg/trace"
)

var (
	analyzeDir  string
	analyzePlot string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "summarize trace length across a batch of recorded iterations",
	Long: `analyze reads every *.csv trace file in a directory (one file per
recorded iteration, as produced by GetTrace), reports descriptive
statistics of trace length, and optionally renders a PNG line plot of
trace length versus iteration index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := os.ReadDir(analyzeDir)
		if err != nil {
			return fmt.Errorf("reading trace directory: %w", err)
		}

		var traces []*trace.Trace
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(analyzeDir, entry.Name()))
			if err != nil {
				return fmt.Errorf("reading %s: %w", entry.Name(), err)
			}
			t, err := trace.Parse(string(raw))
			if err != nil {
				return fmt.Errorf("parsing %s: %w", entry.Name(), err)
			}
			traces = append(traces, t)
		}

		summary := analysis.Summarize(traces)
		fmt.Printf("iterations: %d\n", summary.Iterations)
		fmt.Printf("trace length: mean=%.2f stddev=%.2f min=%.0f max=%.0f\n",
			summary.Mean, summary.StdDev, summary.Min, summary.Max)

		if analyzePlot != "" {
			if err := analysis.PlotTraceLengths(traces, analyzePlot); err != nil {
				return fmt.Errorf("plotting: %w", err)
			}
			fmt.Printf("wrote plot to %s\n", analyzePlot)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeDir, "dir", "d", "",
		"directory of recorded *.csv trace files")
	analyzeCmd.Flags().StringVarP(&analyzePlot, "plot", "p", "",
		"optional path to write a PNG plot of trace length over iterations")
	analyzeCmd.MarkFlagRequired("dir")
}
