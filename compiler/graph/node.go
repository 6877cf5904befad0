//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package graph

import (
	"fmt"

	"github.com/markkurossi/redpiler/world"
	"github.com/markkurossi/text/superscript"
)

// NodeType specifies the logic element type.
type NodeType uint8

// Node types.
const (
	Repeater NodeType = iota
	Torch
	Comparator
	Lamp
	Button
	Lever
	PressurePlate
	Trapdoor
	Wire
	Constant
	NoteBlock
)

var nodeTypeNames = map[NodeType]string{
	Repeater:      "Repeater",
	Torch:         "Torch",
	Comparator:    "Comparator",
	Lamp:          "Lamp",
	Button:        "Button",
	Lever:         "Lever",
	PressurePlate: "PressurePlate",
	Trapdoor:      "Trapdoor",
	Wire:          "Wire",
	Constant:      "Constant",
	NoteBlock:     "NoteBlock",
}

func (t NodeType) String() string {
	name, ok := nodeTypeNames[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{NodeType %d}", t)
}

// ComparatorMode specifies the comparator operation.
type ComparatorMode uint8

// Comparator modes.
const (
	Compare ComparatorMode = iota
	Subtract
)

func (m ComparatorMode) String() string {
	if m == Subtract {
		return "subtract"
	}
	return "compare"
}

// Kind specifies the node type and its type specific attributes.
// Kind values are comparable; two nodes behave identically for
// identical inputs iff their kinds are equal.
type Kind struct {
	Type NodeType

	// Repeater attributes.
	Delay uint8

	// Repeater and comparator attributes.
	FacingDiode bool

	// Comparator attributes. FarInput is valid only if HasFarInput
	// is set.
	Mode        ComparatorMode
	FarInput    uint8
	HasFarInput bool

	// Note block attributes.
	Instrument uint8
	Note       uint8
}

// NewRepeater creates a repeater kind.
func NewRepeater(delay uint8, facingDiode bool) Kind {
	return Kind{
		Type:        Repeater,
		Delay:       delay,
		FacingDiode: facingDiode,
	}
}

// NewComparator creates a comparator kind without a far input.
func NewComparator(mode ComparatorMode, facingDiode bool) Kind {
	return Kind{
		Type:        Comparator,
		Mode:        mode,
		FacingDiode: facingDiode,
	}
}

// NewKind creates a kind without type specific attributes.
func NewKind(t NodeType) Kind {
	return Kind{
		Type: t,
	}
}

func (k Kind) String() string {
	switch k.Type {
	case Repeater:
		return k.Type.String() + superscript.Itoa(int(k.Delay))
	case Comparator:
		name := k.Type.String()
		if k.Mode == Subtract {
			name += "-"
		}
		if k.HasFarInput {
			name += superscript.Itoa(int(k.FarInput))
		}
		return name
	case NoteBlock:
		return fmt.Sprintf("%s[%d:%d]", k.Type, k.Instrument, k.Note)
	default:
		return k.Type.String()
	}
}

// BlockRef references the world block a node was created from.
type BlockRef struct {
	Pos world.BlockPos
	ID  uint32
}

func (b BlockRef) String() string {
	return fmt.Sprintf("%v#%x", b.Pos, b.ID)
}

// State holds the node's dynamic state.
type State struct {
	Powered        bool
	RepeaterLocked bool
	OutputStrength uint8
}

// StrengthState returns a state with the output strength ss.
func StrengthState(ss uint8) State {
	return State{
		Powered:        ss > 0,
		OutputStrength: ss,
	}
}

// Node implements one logic element of the compile graph.
type Node struct {
	Kind Kind
	// Blocks lists the world blocks the node stands for. Nodes
	// synthesized by optimizations have no blocks, merged nodes
	// carry the blocks of all merged nodes.
	Blocks   []BlockRef
	State    State
	IsInput  bool
	IsOutput bool
}

// Removable tests if the node has no external I/O role and can be
// merged or deleted.
func (n *Node) Removable() bool {
	return !n.IsInput && !n.IsOutput
}

func (n *Node) String() string {
	return fmt.Sprintf("%s{ss=%d,in=%v,out=%v}",
		n.Kind, n.State.OutputStrength, n.IsInput, n.IsOutput)
}

// LinkType specifies the input channel of a link.
type LinkType uint8

// Link types.
const (
	Default LinkType = iota
	Side
)

func (t LinkType) String() string {
	if t == Side {
		return "side"
	}
	return "default"
}

// Link specifies the attributes of a directed edge.
type Link struct {
	Type           LinkType
	SignalStrength uint8
}

func (l Link) String() string {
	return fmt.Sprintf("%s:%d", l.Type, l.SignalStrength)
}
