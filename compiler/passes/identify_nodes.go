//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"errors"
	"fmt"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/markkurossi/redpiler/world"
)

// IdentifyNodes creates a graph node for each redstone component in
// the input region.
type IdentifyNodes struct {
	always
}

// Name implements Pass.Name.
func (p *IdentifyNodes) Name() string {
	return "IdentifyNodes"
}

// StatusMessage implements Pass.StatusMessage.
func (p *IdentifyNodes) StatusMessage() string {
	return "Identifying nodes"
}

// Run implements Pass.Run.
func (p *IdentifyNodes) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	if input == nil || input.World == nil {
		return errors.New("no input world")
	}
	if !input.Bounds.Valid() {
		return fmt.Errorf("invalid bounds %v", input.Bounds)
	}
	w := input.World

	input.Bounds.ForEach(func(pos world.BlockPos) {
		node, ok := identifyNode(w, pos, w.GetBlock(pos))
		if ok {
			g.AddNode(node)
		}
	})
	return nil
}

func identifyNode(w world.World, pos world.BlockPos, block world.Block) (
	graph.Node, bool) {

	node := graph.Node{
		Blocks: []graph.BlockRef{
			{
				Pos: pos,
				ID:  block.ID(),
			},
		},
	}

	switch block.Type {
	case world.Repeater:
		delay := block.Delay
		if delay == 0 {
			delay = 1
		}
		node.Kind = graph.NewRepeater(delay, facingDiode(w, pos, block))
		node.State = poweredState(block.Powered)
		node.State.RepeaterLocked = block.Locked

	case world.Comparator:
		mode := graph.Compare
		if block.Subtract {
			mode = graph.Subtract
		}
		node.Kind = graph.NewComparator(mode, facingDiode(w, pos, block))
		if far, ok := farInput(w, pos, block); ok {
			node.Kind.FarInput = far
			node.Kind.HasFarInput = true
		}
		node.State = graph.StrengthState(block.Power)

	case world.Torch:
		node.Kind = graph.NewKind(graph.Torch)
		node.State = poweredState(block.Powered)

	case world.Lamp:
		node.Kind = graph.NewKind(graph.Lamp)
		node.State.Powered = block.Powered
		node.IsOutput = true

	case world.Trapdoor:
		node.Kind = graph.NewKind(graph.Trapdoor)
		node.State.Powered = block.Powered
		node.IsOutput = true

	case world.NoteBlock:
		node.Kind = graph.Kind{
			Type:       graph.NoteBlock,
			Instrument: block.Instrument,
			Note:       block.Note,
		}
		node.State.Powered = block.Powered
		node.IsOutput = true

	case world.Lever:
		node.Kind = graph.NewKind(graph.Lever)
		node.State = poweredState(block.Powered)
		node.IsInput = true

	case world.Button:
		node.Kind = graph.NewKind(graph.Button)
		node.State = poweredState(block.Powered)
		node.IsInput = true

	case world.PressurePlate:
		node.Kind = graph.NewKind(graph.PressurePlate)
		node.State = poweredState(block.Powered)
		node.IsInput = true

	case world.Wire:
		node.Kind = graph.NewKind(graph.Wire)
		node.State = graph.StrengthState(block.Power)

	case world.RedstoneBlock:
		node.Kind = graph.NewKind(graph.Constant)
		node.State = graph.StrengthState(graph.MaxStrength)

	default:
		return node, false
	}
	return node, true
}

func poweredState(powered bool) graph.State {
	if powered {
		return graph.StrengthState(graph.MaxStrength)
	}
	return graph.State{}
}

// facingDiode tests if the diode outputs into another diode.
func facingDiode(w world.World, pos world.BlockPos, block world.Block) bool {
	return w.GetBlock(pos.Offset(block.Facing)).Type.IsDiode()
}

// farInput resolves the container level a comparator reads either
// directly behind it or through one solid block.
func farInput(w world.World, pos world.BlockPos, block world.Block) (
	uint8, bool) {

	back := block.Facing.Opposite()
	behind := pos.Offset(back)
	b := w.GetBlock(behind)
	switch b.Type {
	case world.Container:
		return b.Power, true

	case world.Solid:
		far := w.GetBlock(behind.Offset(back))
		if far.Type == world.Container {
			return far.Power, true
		}
	}
	return 0, false
}
