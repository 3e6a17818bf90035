// Package analysis implements trace-analysis tooling: descriptive
// statistics and a PNG line plot over a set of previously recorded
// schedule traces. It only ever reads already-recorded
// pkg/trace.Trace values — it never touches a live scheduler and has
// no effect on scheduling decisions.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/amirkhaki/conductor/pkg/trace"
)

// Summary reports descriptive statistics of trace length across a set
// of iterations.
type Summary struct {
	Iterations int
	Lengths    []float64
	Mean       float64
	StdDev     float64
	Min        float64
	Max        float64
}

// Summarize computes a Summary over traces, one length sample per
// trace.
func Summarize(traces []*trace.Trace) Summary {
	lengths := make([]float64, len(traces))
	for i, t := range traces {
		lengths[i] = float64(t.Len())
	}

	summary := Summary{Iterations: len(traces), Lengths: lengths}
	if len(lengths) == 0 {
		return summary
	}

	summary.Mean, summary.StdDev = stat.MeanStdDev(lengths, nil)
	summary.Min, summary.Max = lengths[0], lengths[0]
	for _, v := range lengths {
		if v < summary.Min {
			summary.Min = v
		}
		if v > summary.Max {
			summary.Max = v
		}
	}
	return summary
}

// PlotTraceLengths renders trace length versus iteration index as a
// PNG line plot at outputPath.
func PlotTraceLengths(traces []*trace.Trace, outputPath string) error {
	p := plot.New()
	p.Title.Text = "Schedule trace length"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Trace length"

	points := make(plotter.XYs, len(traces))
	for i, t := range traces {
		points[i] = plotter.XY{X: float64(i), Y: float64(t.Len())}
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("analysis: building line plot: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.Legend.Add("trace length", line)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("analysis: saving plot: %w", err)
	}
	return nil
}
