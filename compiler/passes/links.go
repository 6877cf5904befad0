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

// ClampWeights caps link signal strength losses at the maximum
// signal strength.
type ClampWeights struct {
	always
}

// Name implements Pass.Name.
func (p *ClampWeights) Name() string {
	return "ClampWeights"
}

// StatusMessage implements Pass.StatusMessage.
func (p *ClampWeights) StatusMessage() string {
	return "Clamping weights"
}

// Run implements Pass.Run.
func (p *ClampWeights) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {
	clampWeights(g)
	return nil
}

func clampWeights(g *graph.Graph) int {
	var count int
	for _, eid := range g.EdgeIDs() {
		e := g.Edge(eid)
		if e.Link.SignalStrength > graph.MaxStrength {
			e.Link.SignalStrength = graph.MaxStrength
			count++
		}
	}
	return count
}

// DedupLinks merges parallel links with the same source, target, and
// link type into the link with the smallest signal strength loss.
type DedupLinks struct {
	optimization
}

// Name implements Pass.Name.
func (p *DedupLinks) Name() string {
	return "DedupLinks"
}

// StatusMessage implements Pass.StatusMessage.
func (p *DedupLinks) StatusMessage() string {
	return "Deduplicating links"
}

// Run implements Pass.Run.
func (p *DedupLinks) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {
	dedupLinks(g)
	return nil
}

// linkKey identifies parallel links by the node at the other end
// and the link type.
type linkKey struct {
	source graph.NodeID
	lt     graph.LinkType
}

func dedupLinks(g *graph.Graph) int {
	var count int

	for _, id := range g.NodeIDs() {
		best := make(map[linkKey]graph.EdgeID)

		for _, eid := range g.Incoming(id) {
			e := g.Edge(eid)
			key := linkKey{
				source: e.Source,
				lt:     e.Link.Type,
			}
			prev, ok := best[key]
			if !ok {
				best[key] = eid
				continue
			}
			if e.Link.SignalStrength < g.Edge(prev).Link.SignalStrength {
				g.RemoveEdge(prev)
				best[key] = eid
			} else {
				g.RemoveEdge(eid)
			}
			count++
		}
	}
	return count
}
