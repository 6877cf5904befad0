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

// Coalesce merges identical gates driven by the same single source.
// The pass iterates until no gates can be merged.
type Coalesce struct {
	optimization
}

// Name implements Pass.Name.
func (p *Coalesce) Name() string {
	return "Coalesce"
}

// StatusMessage implements Pass.StatusMessage.
func (p *Coalesce) StatusMessage() string {
	return "Coalescing duplicate logic"
}

// Run implements Pass.Run.
func (p *Coalesce) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	n := coalesce(g)
	params.Log().WithField("merged", n).Debug("coalesce done")
	return nil
}

func coalesce(g *graph.Graph) int {
	var total int
	for {
		n := coalesceIteration(g)
		if n == 0 {
			return total
		}
		total += n
	}
}

func coalesceIteration(g *graph.Graph) int {
	var count int

	for _, id := range g.NodeIDs() {
		node := g.Node(id)
		// Comparator outputs depend on the link weights and the far
		// input, not only on the kind.
		if node == nil || node.Kind.Type == graph.Comparator ||
			!node.Removable() {
			continue
		}
		incoming := g.Incoming(id)
		if len(incoming) != 1 {
			continue
		}
		e := g.Edge(incoming[0])
		if e.Link.Type != graph.Default || e.Source == id {
			continue
		}
		if g.Node(e.Source).Kind.Type == graph.Comparator {
			continue
		}
		count += coalesceSiblings(g, e.Source, id, e.Link)
	}
	return count
}

// coalesceSiblings merges the source's other targets that are
// identical to the node into.
func coalesceSiblings(g *graph.Graph, source, into graph.NodeID,
	link graph.Link) int {

	var count int
	target := g.Node(into)

	for _, eid := range g.Outgoing(source) {
		e := g.Edge(eid)
		if e == nil || e.Target == into || e.Target == source {
			continue
		}
		if e.Link != link {
			continue
		}
		sibling := g.Node(e.Target)
		if sibling.Kind != target.Kind || !sibling.Removable() ||
			g.NumIncoming(e.Target) != 1 {
			continue
		}
		merge(g, e.Target, into)
		count++
	}
	return count
}

// merge moves the outputs and blocks of the node from to the node
// into and removes the node from. Parallel links to the same target
// are reduced to the one with the smallest weight.
func merge(g *graph.Graph, from, into graph.NodeID) {
	outputs := make(map[linkKey]graph.EdgeID)
	for _, eid := range g.Outgoing(into) {
		e := g.Edge(eid)
		outputs[linkKey{source: e.Target, lt: e.Link.Type}] = eid
	}
	for _, eid := range g.Outgoing(from) {
		e := g.Edge(eid)
		key := linkKey{source: e.Target, lt: e.Link.Type}
		prev, ok := outputs[key]
		if ok && g.Edge(prev).Link.SignalStrength <= e.Link.SignalStrength {
			g.RemoveEdge(eid)
			continue
		}
		if ok {
			g.RemoveEdge(prev)
		}
		g.SetSource(eid, into)
		outputs[key] = eid
	}
	target := g.Node(into)
	target.Blocks = append(target.Blocks, g.Node(from).Blocks...)
	g.RemoveNode(from)
}
