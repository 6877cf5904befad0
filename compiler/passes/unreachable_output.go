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

// UnreachableOutput removes links that can never carry power and
// settles output nodes whose inputs are constants. A settled output
// is fed from a single constant carrying its fixed input power so
// the constants behind it become orphans.
type UnreachableOutput struct {
	optimization
}

// Name implements Pass.Name.
func (p *UnreachableOutput) Name() string {
	return "UnreachableOutput"
}

// StatusMessage implements Pass.StatusMessage.
func (p *UnreachableOutput) StatusMessage() string {
	return "Removing unreachable outputs"
}

// Run implements Pass.Run.
func (p *UnreachableOutput) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	links := pruneDeadLinks(g)
	outputs := settleOutputs(g)
	params.Log().WithField("links", links).WithField("outputs", outputs).
		Debug("unreachable output done")
	return nil
}

// maxOutput returns an upper bound for the node's output strength.
func maxOutput(g *graph.Graph, id graph.NodeID) uint8 {
	node := g.Node(id)
	switch node.Kind.Type {
	case graph.Constant:
		return node.State.OutputStrength

	case graph.Comparator:
		if node.Kind.Mode != graph.Subtract {
			break
		}
		// The side input is at least the strongest constant side
		// input.
		var side uint8
		for _, eid := range g.Incoming(id) {
			e := g.Edge(eid)
			if e.Link.Type != graph.Side {
				continue
			}
			src := g.Node(e.Source)
			if src.Kind.Type != graph.Constant {
				continue
			}
			side = max(side, graph.Attenuate(src.State.OutputStrength,
				e.Link.SignalStrength))
		}
		return graph.MaxStrength - side
	}
	return graph.MaxStrength
}

func pruneDeadLinks(g *graph.Graph) int {
	var count int

	for _, id := range g.NodeIDs() {
		limit := maxOutput(g, id)
		for _, eid := range g.Outgoing(id) {
			if g.Edge(eid).Link.SignalStrength >= limit {
				g.RemoveEdge(eid)
				count++
			}
		}
	}
	return count
}

func settleOutputs(g *graph.Graph) int {
	var count int

	for _, id := range g.NodeIDs() {
		node := g.Node(id)
		if !node.IsOutput || !constantInputs(g, id) {
			continue
		}
		incoming := g.Incoming(id)
		if len(incoming) == 0 {
			continue
		}
		def, side := g.InputPower(id)
		node.State = node.Kind.Settle(node.State, def, side)
		if settled(g, incoming) {
			continue
		}
		for _, eid := range incoming {
			g.RemoveEdge(eid)
		}
		if def > 0 {
			c := g.AddNode(graph.Node{
				Kind:  graph.NewKind(graph.Constant),
				State: graph.StrengthState(def),
			})
			g.AddEdge(c, id, graph.Link{
				Type: graph.Default,
			})
		}
		count++
	}
	return count
}

// settled tests if the links are a single unattenuated default link
// from a constant.
func settled(g *graph.Graph, incoming []graph.EdgeID) bool {
	if len(incoming) != 1 {
		return false
	}
	e := g.Edge(incoming[0])
	return e.Link.Type == graph.Default && e.Link.SignalStrength == 0
}
