//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
)

// ConstantFold replaces gates whose inputs are all constants with
// constants. The pass iterates until no gate can be folded.
type ConstantFold struct {
	optimization
}

// Name implements Pass.Name.
func (p *ConstantFold) Name() string {
	return "ConstantFold"
}

// StatusMessage implements Pass.StatusMessage.
func (p *ConstantFold) StatusMessage() string {
	return "Folding constants"
}

// Run implements Pass.Run.
func (p *ConstantFold) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	n := constantFold(g)
	params.Log().WithField("folded", n).Debug("constant fold done")
	return nil
}

func constantFold(g *graph.Graph) int {
	var total int
	for {
		n := constantFoldIteration(g)
		if n == 0 {
			return total
		}
		total += n
	}
}

func constantFoldIteration(g *graph.Graph) int {
	var count int

	for _, id := range g.NodeIDs() {
		node := g.Node(id)
		if node.Kind.Type == graph.Constant || !constantInputs(g, id) {
			continue
		}
		def, side := g.InputPower(id)
		ss, ok := node.Kind.Fold(node.State, def, side)
		if !ok {
			continue
		}
		node.Kind = graph.NewKind(graph.Constant)
		node.State = graph.StrengthState(ss)
		for _, eid := range g.Incoming(id) {
			g.RemoveEdge(eid)
		}
		count++
	}
	return count
}

// constantInputs tests if all the node's sources are constants.
func constantInputs(g *graph.Graph, id graph.NodeID) bool {
	for _, eid := range g.Incoming(id) {
		if g.Node(g.Edge(eid).Source).Kind.Type != graph.Constant {
			return false
		}
	}
	return true
}
