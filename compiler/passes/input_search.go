//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/markkurossi/redpiler/world"
)

// InputSearch links each node to the nodes powering it. Redstone
// wires are transparent: a source reached through a wire network
// is linked directly with the wire distance as the signal strength
// loss.
type InputSearch struct {
	always
}

// Name implements Pass.Name.
func (p *InputSearch) Name() string {
	return "InputSearch"
}

// StatusMessage implements Pass.StatusMessage.
func (p *InputSearch) StatusMessage() string {
	return "Searching node inputs"
}

// Run implements Pass.Run.
func (p *InputSearch) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	s := &inputSearch{
		g:      g,
		w:      input.World,
		posMap: make(map[world.BlockPos]graph.NodeID),
	}
	for _, id := range g.NodeIDs() {
		for _, ref := range g.Node(id).Blocks {
			s.posMap[ref.Pos] = id
		}
	}
	for _, id := range g.NodeIDs() {
		s.search(id)
	}
	return nil
}

type inputSearch struct {
	g      *graph.Graph
	w      world.World
	posMap map[world.BlockPos]graph.NodeID
}

func (s *inputSearch) search(id graph.NodeID) {
	node := s.g.Node(id)
	if len(node.Blocks) == 0 {
		return
	}
	pos := node.Blocks[0].Pos
	block := s.w.GetBlock(pos)

	switch block.Type {
	case world.Repeater:
		s.searchAt(id, pos, pos.Offset(block.Facing.Opposite()), graph.Default)
		for _, side := range sides(block.Facing) {
			q := pos.Offset(side)
			b := s.w.GetBlock(q)
			if b.Type.IsDiode() && emitsInto(q, b, pos) {
				s.link(q, id, graph.Side, 0)
			}
		}

	case world.Comparator:
		s.searchAt(id, pos, pos.Offset(block.Facing.Opposite()), graph.Default)
		for _, side := range sides(block.Facing) {
			q := pos.Offset(side)
			b := s.w.GetBlock(q)
			switch b.Type {
			case world.Repeater, world.Comparator, world.RedstoneBlock:
				if emitsInto(q, b, pos) {
					s.link(q, id, graph.Side, 0)
				}
			case world.Wire:
				s.wireSources(id, q, graph.Side)
			}
		}

	case world.Torch:
		s.searchAt(id, pos, pos.Offset(block.Facing), graph.Default)

	case world.Lamp, world.Trapdoor, world.NoteBlock:
		for _, dir := range world.Directions {
			s.searchAt(id, pos, pos.Offset(dir), graph.Default)
		}

	case world.Wire:
		s.wireSources(id, pos, graph.Default)
	}
}

func sides(facing world.Direction) [2]world.Direction {
	return [2]world.Direction{facing.RotateCW(), facing.RotateCCW()}
}

// searchAt links the node id at pos to the sources powering it from
// the neighbour position q.
func (s *inputSearch) searchAt(id graph.NodeID, pos, q world.BlockPos,
	lt graph.LinkType) {

	b := s.w.GetBlock(q)
	switch b.Type {
	case world.Wire:
		if wirePowers(q, pos) {
			s.wireSources(id, q, lt)
		}

	case world.Solid:
		for _, dir := range world.Directions {
			n := q.Offset(dir)
			if n == pos {
				continue
			}
			nb := s.w.GetBlock(n)
			if nb.Type == world.Wire {
				if wirePowers(n, q) {
					s.wireSources(id, n, lt)
				}
			} else if powersBlock(n, nb, q) {
				s.link(n, id, lt, 0)
			}
		}

	default:
		if emitsInto(q, b, pos) {
			s.link(q, id, lt, 0)
		}
	}
}

// wireSources links the node id to the sources powering the wire
// network at the wire start.
func (s *inputSearch) wireSources(id graph.NodeID, start world.BlockPos,
	lt graph.LinkType) {

	type item struct {
		pos  world.BlockPos
		dist uint8
	}
	visited := map[world.BlockPos]bool{
		start: true,
	}
	queue := []item{{pos: start}}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		for _, dir := range world.Directions {
			n := it.pos.Offset(dir)
			nb := s.w.GetBlock(n)
			if nb.Type == world.Wire {
				if dir.IsHorizontal() && !visited[n] &&
					it.dist+1 < graph.MaxStrength {
					visited[n] = true
					queue = append(queue, item{
						pos:  n,
						dist: it.dist + 1,
					})
				}
			} else if emitsInto(n, nb, it.pos) {
				s.link(n, id, lt, it.dist)
			}
		}
	}
}

func (s *inputSearch) link(from world.BlockPos, to graph.NodeID,
	lt graph.LinkType, dist uint8) {

	src, ok := s.posMap[from]
	if !ok || src == to {
		return
	}
	s.g.AddEdge(src, to, graph.Link{
		Type:           lt,
		SignalStrength: dist,
	})
}

// emitsInto tests if the component at pos outputs power into the
// adjacent position target.
func emitsInto(pos world.BlockPos, b world.Block,
	target world.BlockPos) bool {

	switch b.Type {
	case world.Repeater, world.Comparator:
		return pos.Offset(b.Facing) == target
	case world.Torch:
		return pos.Offset(b.Facing) != target
	case world.Lever, world.Button, world.PressurePlate, world.RedstoneBlock:
		return true
	default:
		return false
	}
}

// powersBlock tests if the component at pos powers the adjacent
// solid block at target.
func powersBlock(pos world.BlockPos, b world.Block,
	target world.BlockPos) bool {

	switch b.Type {
	case world.Repeater, world.Comparator:
		return pos.Offset(b.Facing) == target
	case world.Torch:
		return b.Facing != world.Up && pos.Offset(world.Up) == target
	case world.Lever, world.Button, world.PressurePlate:
		return pos.Offset(b.Facing) == target
	default:
		return false
	}
}

// wirePowers tests if the wire at pos powers the adjacent position
// target.
func wirePowers(pos, target world.BlockPos) bool {
	return target.Y == pos.Y || target == pos.Offset(world.Down)
}
