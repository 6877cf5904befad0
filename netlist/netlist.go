//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package netlist implements the flattened compile graph consumed by
// the runtime evaluator.
package netlist

import (
	"fmt"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/world"
)

// Netlist is a dense array of nodes indexed by node ID.
type Netlist struct {
	Nodes []Node
}

func (n *Netlist) String() string {
	var links int
	for _, node := range n.Nodes {
		links += len(node.Inputs)
	}
	return fmt.Sprintf("#nodes=%d #links=%d", len(n.Nodes), links)
}

// Node specifies a flattened graph node.
type Node struct {
	Kind     graph.Kind
	Blocks   []graph.BlockRef
	State    graph.State
	IsInput  bool
	IsOutput bool
	Inputs   []Input
	Outputs  []uint32
	Links    []ForwardLink
}

// Input specifies a weighted incoming link.
type Input struct {
	Type   graph.LinkType
	Weight uint8
	Source uint32
}

func (i Input) String() string {
	return fmt.Sprintf("%d:%s:%d", i.Source, i.Type, i.Weight)
}

// ForwardLink packs an outgoing link: the target node ID, the side
// channel flag, and the 4-bit signal strength loss.
type ForwardLink uint32

const (
	flWeightMask = 0xf
	flSide       = 0x10
	flTargetShft = 5

	// MaxNodes is the maximum number of nodes a forward link can
	// address.
	MaxNodes = 1 << (32 - flTargetShft)
)

// NewForwardLink creates a forward link.
func NewForwardLink(target uint32, side bool, weight uint8) ForwardLink {
	l := ForwardLink(target<<flTargetShft) | ForwardLink(weight&flWeightMask)
	if side {
		l |= flSide
	}
	return l
}

// Target returns the link target node ID.
func (l ForwardLink) Target() uint32 {
	return uint32(l) >> flTargetShft
}

// Side tests if the link feeds the target's side input.
func (l ForwardLink) Side() bool {
	return l&flSide != 0
}

// Weight returns the link signal strength loss.
func (l ForwardLink) Weight() uint8 {
	return uint8(l & flWeightMask)
}

func (l ForwardLink) String() string {
	lt := graph.Default
	if l.Side() {
		lt = graph.Side
	}
	return fmt.Sprintf("->%d:%s:%d", l.Target(), lt, l.Weight())
}

// Flatten converts the graph into a netlist. Node IDs are assigned
// densely in graph node order.
func Flatten(g *graph.Graph) (*Netlist, error) {
	ids := g.NodeIDs()
	if len(ids) > MaxNodes {
		return nil, fmt.Errorf("too many nodes: %d > %d", len(ids), MaxNodes)
	}
	index := make(map[graph.NodeID]uint32, len(ids))
	for idx, id := range ids {
		index[id] = uint32(idx)
	}

	result := &Netlist{
		Nodes: make([]Node, len(ids)),
	}
	for idx, id := range ids {
		n := g.Node(id)
		node := &result.Nodes[idx]
		node.Kind = n.Kind
		node.Blocks = append([]graph.BlockRef(nil), n.Blocks...)
		node.State = n.State
		node.IsInput = n.IsInput
		node.IsOutput = n.IsOutput

		for _, eid := range g.Incoming(id) {
			e := g.Edge(eid)
			if e.Link.SignalStrength > graph.MaxStrength {
				return nil, fmt.Errorf("link %v: weight %d not clamped",
					e, e.Link.SignalStrength)
			}
			node.Inputs = append(node.Inputs, Input{
				Type:   e.Link.Type,
				Weight: e.Link.SignalStrength,
				Source: index[e.Source],
			})
		}
		for _, succ := range g.Successors(id) {
			node.Outputs = append(node.Outputs, index[succ])
		}
	}
	result.link()

	return result, nil
}

// link rebuilds the nodes' forward links from their inputs.
func (n *Netlist) link() {
	for idx := range n.Nodes {
		n.Nodes[idx].Links = nil
	}
	for idx, node := range n.Nodes {
		for _, in := range node.Inputs {
			src := &n.Nodes[in.Source]
			src.Links = append(src.Links,
				NewForwardLink(uint32(idx), in.Type == graph.Side, in.Weight))
		}
	}
}

// Lookup returns the ID of the node holding the world position.
func (n *Netlist) Lookup(pos world.BlockPos) (uint32, bool) {
	for idx, node := range n.Nodes {
		for _, b := range node.Blocks {
			if b.Pos == pos {
				return uint32(idx), true
			}
		}
	}
	return 0, false
}

// InputPower computes the default and side input powers of the node.
func (n *Netlist) InputPower(id uint32) (def, side uint8) {
	for _, in := range n.Nodes[id].Inputs {
		ss := graph.Attenuate(n.Nodes[in.Source].State.OutputStrength,
			in.Weight)
		if in.Type == graph.Side {
			side = max(side, ss)
		} else {
			def = max(def, ss)
		}
	}
	return
}

// Settle evaluates the netlist to its steady state, ignoring gate
// delays. The function returns false if the state did not converge
// in maxRounds rounds, for example in clock circuits.
func (n *Netlist) Settle(maxRounds int) bool {
	for round := 0; round < maxRounds; round++ {
		var changed bool
		for idx := range n.Nodes {
			node := &n.Nodes[idx]
			def, side := n.InputPower(uint32(idx))
			state := node.Kind.Settle(node.State, def, side)
			if state != node.State {
				node.State = state
				changed = true
			}
		}
		if !changed {
			return true
		}
	}
	return false
}
