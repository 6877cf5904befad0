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

// ConstantCoalesce merges removable constants of equal strength that
// feed the same connected component of the graph. Constants don't
// connect components: each component gets its own constant per
// signal strength.
type ConstantCoalesce struct {
	optimization
}

// Name implements Pass.Name.
func (p *ConstantCoalesce) Name() string {
	return "ConstantCoalesce"
}

// StatusMessage implements Pass.StatusMessage.
func (p *ConstantCoalesce) StatusMessage() string {
	return "Coalescing constants"
}

// Run implements Pass.Run.
func (p *ConstantCoalesce) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {
	constantCoalesce(g)
	return nil
}

func removableConstant(n *graph.Node) bool {
	return n.Kind.Type == graph.Constant && n.Removable()
}

type constantKey struct {
	component int
	ss        uint8
}

func constantCoalesce(g *graph.Graph) int {
	uf := newUnionFind(g.NodeBound())
	for _, eid := range g.EdgeIDs() {
		e := g.Edge(eid)
		if removableConstant(g.Node(e.Source)) {
			continue
		}
		uf.union(int(e.Source), int(e.Target))
	}

	var count int
	canonical := make(map[constantKey]graph.NodeID)
	bound := make(map[graph.NodeID]bool)

	for _, id := range g.NodeIDs() {
		node := g.Node(id)
		if !removableConstant(node) {
			continue
		}
		ss := node.State.OutputStrength

		var moved bool
		for _, eid := range g.Outgoing(id) {
			e := g.Edge(eid)
			key := constantKey{
				component: uf.find(int(e.Target)),
				ss:        ss,
			}
			c, ok := canonical[key]
			if !ok {
				if !bound[id] {
					// The first constant of a component serves it.
					canonical[key] = id
					bound[id] = true
					continue
				}
				c = g.AddNode(graph.Node{
					Kind:  graph.NewKind(graph.Constant),
					State: graph.StrengthState(ss),
				})
				canonical[key] = c
			}
			if c == id {
				continue
			}
			g.SetSource(eid, c)
			moved = true
		}
		if moved && g.NumOutgoing(id) == 0 {
			g.RemoveNode(id)
			count++
		}
	}
	return count
}

// unionFind implements a disjoint-set forest over integer IDs.
type unionFind struct {
	parent []int
	rank   []uint8
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]uint8, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra := uf.find(a)
	rb := uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
