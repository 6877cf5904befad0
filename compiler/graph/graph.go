//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package graph

import (
	"fmt"
)

// NodeID identifies a node. Node IDs stay valid until the node is
// removed and they are never reused by the graph.
type NodeID uint32

// EdgeID identifies an edge. Edge IDs are never reused.
type EdgeID uint32

func (id NodeID) String() string {
	return fmt.Sprintf("n%d", uint32(id))
}

// Edge implements a directed link between two nodes.
type Edge struct {
	Source NodeID
	Target NodeID
	Link   Link
}

func (e *Edge) String() string {
	return fmt.Sprintf("%v->%v[%v]", e.Source, e.Target, e.Link)
}

type slot struct {
	node    Node
	inputs  []EdgeID
	outputs []EdgeID
}

// Graph implements a mutable directed multigraph with stable node
// and edge IDs. Removed nodes and edges leave tombstones in their
// arenas.
type Graph struct {
	nodes    []*slot
	edges    []*Edge
	numNodes int
	numEdges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make([]*slot, 0, 1024),
		edges: make([]*Edge, 0, 1024),
	}
}

func (g *Graph) String() string {
	return fmt.Sprintf("#nodes=%d #links=%d", g.numNodes, g.numEdges)
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int {
	return g.numNodes
}

// NumEdges returns the number of live edges.
func (g *Graph) NumEdges() int {
	return g.numEdges
}

// NodeBound returns an upper bound for live node IDs.
func (g *Graph) NodeBound() int {
	return len(g.nodes)
}

// AddNode adds the node to the graph and returns its ID.
func (g *Graph) AddNode(node Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &slot{
		node: node,
	})
	g.numNodes++
	return id
}

// Contains tests if the node exists in the graph.
func (g *Graph) Contains(id NodeID) bool {
	return int(id) < len(g.nodes) && g.nodes[id] != nil
}

// Node returns the node by its ID or nil if the node has been
// removed. The returned node can be modified in place.
func (g *Graph) Node(id NodeID) *Node {
	if !g.Contains(id) {
		return nil
	}
	return &g.nodes[id].node
}

// RemoveNode removes the node and all its edges.
func (g *Graph) RemoveNode(id NodeID) {
	if !g.Contains(id) {
		return
	}
	s := g.nodes[id]
	for _, eid := range append([]EdgeID(nil), s.inputs...) {
		g.RemoveEdge(eid)
	}
	for _, eid := range append([]EdgeID(nil), s.outputs...) {
		g.RemoveEdge(eid)
	}
	g.nodes[id] = nil
	g.numNodes--
}

// NodeIDs returns the IDs of the live nodes in increasing order.
func (g *Graph) NodeIDs() []NodeID {
	result := make([]NodeID, 0, g.numNodes)
	for idx, s := range g.nodes {
		if s != nil {
			result = append(result, NodeID(idx))
		}
	}
	return result
}

// AddEdge adds a link from the source node to the target node.
func (g *Graph) AddEdge(source, target NodeID, link Link) EdgeID {
	if !g.Contains(source) || !g.Contains(target) {
		panic(fmt.Sprintf("AddEdge: invalid endpoints %v->%v", source, target))
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, &Edge{
		Source: source,
		Target: target,
		Link:   link,
	})
	g.nodes[source].outputs = append(g.nodes[source].outputs, id)
	g.nodes[target].inputs = append(g.nodes[target].inputs, id)
	g.numEdges++
	return id
}

// Edge returns the edge by its ID or nil if the edge has been
// removed.
func (g *Graph) Edge(id EdgeID) *Edge {
	if int(id) >= len(g.edges) {
		return nil
	}
	return g.edges[id]
}

// RemoveEdge removes the edge.
func (g *Graph) RemoveEdge(id EdgeID) {
	e := g.Edge(id)
	if e == nil {
		return
	}
	src := g.nodes[e.Source]
	src.outputs = removeID(src.outputs, id)
	dst := g.nodes[e.Target]
	dst.inputs = removeID(dst.inputs, id)
	g.edges[id] = nil
	g.numEdges--
}

func removeID(ids []EdgeID, id EdgeID) []EdgeID {
	for idx, v := range ids {
		if v == id {
			return append(ids[:idx], ids[idx+1:]...)
		}
	}
	return ids
}

// SetSource moves the edge's source endpoint to the node source.
func (g *Graph) SetSource(id EdgeID, source NodeID) {
	e := g.Edge(id)
	if e == nil || !g.Contains(source) || e.Source == source {
		return
	}
	old := g.nodes[e.Source]
	old.outputs = removeID(old.outputs, id)
	e.Source = source
	g.nodes[source].outputs = append(g.nodes[source].outputs, id)
}

// EdgeIDs returns the IDs of the live edges in increasing order.
func (g *Graph) EdgeIDs() []EdgeID {
	result := make([]EdgeID, 0, g.numEdges)
	for idx, e := range g.edges {
		if e != nil {
			result = append(result, EdgeID(idx))
		}
	}
	return result
}

// Incoming returns a copy of the node's incoming edge IDs.
func (g *Graph) Incoming(id NodeID) []EdgeID {
	if !g.Contains(id) {
		return nil
	}
	return append([]EdgeID(nil), g.nodes[id].inputs...)
}

// Outgoing returns a copy of the node's outgoing edge IDs.
func (g *Graph) Outgoing(id NodeID) []EdgeID {
	if !g.Contains(id) {
		return nil
	}
	return append([]EdgeID(nil), g.nodes[id].outputs...)
}

// NumIncoming returns the number of the node's incoming edges.
func (g *Graph) NumIncoming(id NodeID) int {
	if !g.Contains(id) {
		return 0
	}
	return len(g.nodes[id].inputs)
}

// NumOutgoing returns the number of the node's outgoing edges.
func (g *Graph) NumOutgoing(id NodeID) int {
	if !g.Contains(id) {
		return 0
	}
	return len(g.nodes[id].outputs)
}

// Successors returns the distinct targets of the node's outgoing
// edges in edge order.
func (g *Graph) Successors(id NodeID) []NodeID {
	var result []NodeID
	seen := make(map[NodeID]bool)
	for _, eid := range g.Outgoing(id) {
		t := g.edges[eid].Target
		if !seen[t] {
			seen[t] = true
			result = append(result, t)
		}
	}
	return result
}

// Clone creates a deep copy of the graph preserving node and edge
// IDs.
func (g *Graph) Clone() *Graph {
	result := &Graph{
		nodes:    make([]*slot, len(g.nodes)),
		edges:    make([]*Edge, len(g.edges)),
		numNodes: g.numNodes,
		numEdges: g.numEdges,
	}
	for idx, s := range g.nodes {
		if s == nil {
			continue
		}
		n := s.node
		n.Blocks = append([]BlockRef(nil), s.node.Blocks...)
		result.nodes[idx] = &slot{
			node:    n,
			inputs:  append([]EdgeID(nil), s.inputs...),
			outputs: append([]EdgeID(nil), s.outputs...),
		}
	}
	for idx, e := range g.edges {
		if e != nil {
			c := *e
			result.edges[idx] = &c
		}
	}
	return result
}

// Dump prints a debug dump of the graph.
func (g *Graph) Dump() {
	fmt.Printf("graph %s\n", g)
	for _, id := range g.NodeIDs() {
		fmt.Printf("%v\t%v\n", id, g.Node(id))
		for _, eid := range g.nodes[id].inputs {
			e := g.edges[eid]
			fmt.Printf("\t<- %v %v\n", e.Source, e.Link)
		}
	}
}
