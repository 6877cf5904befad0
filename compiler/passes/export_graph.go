//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"bufio"
	"io"
	"os"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/markkurossi/redpiler/netlist"
)

// ExportGraph writes the flattened graph as a binary artifact. The
// pass does not modify the graph.
type ExportGraph struct{}

// Name implements Pass.Name.
func (p *ExportGraph) Name() string {
	return "ExportGraph"
}

// StatusMessage implements Pass.StatusMessage.
func (p *ExportGraph) StatusMessage() string {
	return "Exporting graph"
}

// ShouldRun implements Pass.ShouldRun.
func (p *ExportGraph) ShouldRun(params *utils.Params) bool {
	return params.Export
}

// Run implements Pass.Run.
func (p *ExportGraph) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	log := params.Log()

	n, err := netlist.Flatten(g)
	if err != nil {
		return utils.Errorf(log, "flatten failed: %s", err)
	}

	var out io.Writer
	var f *os.File
	if params.ExportOut != nil {
		out = params.ExportOut
	} else {
		path := params.ExportPath
		if len(path) == 0 {
			path = utils.DefaultExportPath
		}
		f, err = os.Create(path)
		if err != nil {
			return utils.Errorf(log, "failed to create export file: %s", err)
		}
		defer f.Close()
		out = f
	}

	bw := bufio.NewWriter(out)
	if err := n.Marshal(bw); err != nil {
		return utils.Errorf(log, "export failed: %s", err)
	}
	if err := bw.Flush(); err != nil {
		return utils.Errorf(log, "export failed: %s", err)
	}
	if f != nil {
		if err := f.Close(); err != nil {
			return utils.Errorf(log, "export failed: %s", err)
		}
	}
	log.WithField("nodes", len(n.Nodes)).Debug("graph exported")
	return nil
}
