//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"fmt"
	"io"
	"time"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/tabulate"
)

// Timing records per-pass timing samples and renders a report.
type Timing struct {
	Start   time.Time
	Samples []*Sample
}

// NewTiming creates a new Timing instance.
func NewTiming() *Timing {
	return &Timing{
		Start: time.Now(),
	}
}

// Sample adds a timing sample for the pass label that started at
// start. The sample records the graph size after the pass.
func (t *Timing) Sample(label string, start time.Time,
	g *graph.Graph) *Sample {

	sample := &Sample{
		Label: label,
		Start: start,
		End:   time.Now(),
		Nodes: g.NumNodes(),
		Links: g.NumEdges(),
	}
	t.Samples = append(t.Samples, sample)
	return sample
}

// Print prints the timing report to out.
func (t *Timing) Print(out io.Writer) {
	if len(t.Samples) == 0 {
		return
	}

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Pass").SetAlign(tabulate.ML)
	tab.Header("Time").SetAlign(tabulate.MR)
	tab.Header("%").SetAlign(tabulate.MR)
	tab.Header("Nodes").SetAlign(tabulate.MR)
	tab.Header("Links").SetAlign(tabulate.MR)

	var total time.Duration
	for _, sample := range t.Samples {
		total += sample.Duration()
	}

	for _, sample := range t.Samples {
		row := tab.Row()
		row.Column(sample.Label)

		duration := sample.Duration()
		row.Column(duration.String())
		if total > 0 {
			row.Column(fmt.Sprintf("%.2f%%",
				float64(duration)/float64(total)*100))
		} else {
			row.Column("")
		}
		row.Column(fmt.Sprintf("%d", sample.Nodes))
		row.Column(fmt.Sprintf("%d", sample.Links))
	}

	last := t.Samples[len(t.Samples)-1]

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column(total.String()).SetFormat(tabulate.FmtBold)
	row.Column("").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", last.Nodes)).SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", last.Links)).SetFormat(tabulate.FmtBold)

	tab.Print(out)
}

// Sample contains information about one pass execution.
type Sample struct {
	Label string
	Start time.Time
	End   time.Time
	Nodes int
	Links int
}

// Duration returns the sample duration.
func (s *Sample) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
