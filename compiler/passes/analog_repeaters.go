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

// analogBusWidth is the number of repeaters in an analog bus: one
// per non-zero signal strength.
const analogBusWidth = graph.MaxStrength

// AnalogRepeaters collapses analog repeater buses into a single
// comparator. An analog bus fans a comparator output out to fifteen
// 1-tick repeaters, each one detecting one signal strength level,
// and fans the repeaters back into a comparator.
type AnalogRepeaters struct {
	optimization
}

// Name implements Pass.Name.
func (p *AnalogRepeaters) Name() string {
	return "AnalogRepeaters"
}

// StatusMessage implements Pass.StatusMessage.
func (p *AnalogRepeaters) StatusMessage() string {
	return "Collapsing analog repeater buses"
}

// Run implements Pass.Run.
func (p *AnalogRepeaters) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {
	collapseAnalogBuses(g)
	return nil
}

func collapseAnalogBuses(g *graph.Graph) int {
	var count int
	for _, id := range g.NodeIDs() {
		node := g.Node(id)
		if node == nil || node.Kind.Type != graph.Comparator {
			continue
		}
		if collapseAnalogBus(g, id) {
			count++
		}
	}
	return count
}

func collapseAnalogBus(g *graph.Graph, source graph.NodeID) bool {
	outgoing := g.Outgoing(source)
	if len(outgoing) != analogBusWidth {
		return false
	}

	var levels [analogBusWidth]bool
	var dest graph.NodeID
	var destType graph.LinkType
	repeaters := make([]graph.NodeID, 0, analogBusWidth)

	for idx, eid := range outgoing {
		e := g.Edge(eid)
		if e.Link.Type != graph.Default {
			return false
		}
		rep := g.Node(e.Target)
		if rep.Kind != graph.NewRepeater(1, false) || !rep.Removable() {
			return false
		}
		if g.NumIncoming(e.Target) != 1 || g.NumOutgoing(e.Target) != 1 {
			return false
		}
		out := g.Edge(g.Outgoing(e.Target)[0])
		if idx == 0 {
			dest = out.Target
			destType = out.Link.Type
		} else if out.Target != dest || out.Link.Type != destType {
			return false
		}

		in := e.Link.SignalStrength
		if in >= analogBusWidth ||
			int(in)+int(out.Link.SignalStrength) != analogBusWidth-1 ||
			levels[in] {
			return false
		}
		levels[in] = true
		repeaters = append(repeaters, e.Target)
	}
	if dest == source || g.Node(dest).Kind.Type != graph.Comparator {
		return false
	}

	for _, rep := range repeaters {
		g.RemoveNode(rep)
	}
	bus := g.AddNode(graph.Node{
		Kind:  graph.NewComparator(graph.Compare, false),
		State: graph.StrengthState(g.Node(source).State.OutputStrength),
	})
	g.AddEdge(source, bus, graph.Link{
		Type: graph.Default,
	})
	g.AddEdge(bus, dest, graph.Link{
		Type: destType,
	})
	return true
}
