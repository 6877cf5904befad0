//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package world

import (
	"fmt"
	"strings"
)

// BlockType specifies the block type.
type BlockType uint8

// Block types.
const (
	Air BlockType = iota
	Solid
	Wire
	Repeater
	Comparator
	Torch
	Lamp
	Lever
	Button
	PressurePlate
	Trapdoor
	NoteBlock
	RedstoneBlock
	Container
	numBlockTypes
)

var blockTypeNames = map[BlockType]string{
	Air:           "air",
	Solid:         "solid",
	Wire:          "wire",
	Repeater:      "repeater",
	Comparator:    "comparator",
	Torch:         "torch",
	Lamp:          "lamp",
	Lever:         "lever",
	Button:        "button",
	PressurePlate: "pressure_plate",
	Trapdoor:      "trapdoor",
	NoteBlock:     "note_block",
	RedstoneBlock: "redstone_block",
	Container:     "container",
}

func (t BlockType) String() string {
	name, ok := blockTypeNames[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{BlockType %d}", t)
}

// ParseBlockType parses the block type name.
func ParseBlockType(name string) (BlockType, error) {
	for k, v := range blockTypeNames {
		if v == name {
			return k, nil
		}
	}
	return Air, fmt.Errorf("unknown block type: %s", name)
}

// IsDiode tests if the block type is a repeater or a comparator.
func (t BlockType) IsDiode() bool {
	return t == Repeater || t == Comparator
}

// Block specifies a block state. The meaning of the fields depends
// on the block type:
//
//   - Facing: output direction of diodes, support direction of torches
//     and switches.
//   - Power: wire power level, container comparator level.
//   - Subtract: comparator mode.
type Block struct {
	Type       BlockType
	Facing     Direction
	Delay      uint8
	Locked     bool
	Powered    bool
	Subtract   bool
	Power      uint8
	Instrument uint8
	Note       uint8
}

// Raw block ID layout.
const (
	idTypeMask       = 0x1f
	idFacingShift    = 5
	idDelayShift     = 8
	idLocked         = 1 << 11
	idPowered        = 1 << 12
	idSubtract       = 1 << 13
	idPowerShift     = 14
	idInstrumentShft = 18
	idNoteShift      = 23
)

// ID returns the raw block ID packing the block state into 28 bits.
func (b Block) ID() uint32 {
	id := uint32(b.Type) & idTypeMask
	id |= uint32(b.Facing&0x7) << idFacingShift
	id |= uint32(b.Delay&0x7) << idDelayShift
	if b.Locked {
		id |= idLocked
	}
	if b.Powered {
		id |= idPowered
	}
	if b.Subtract {
		id |= idSubtract
	}
	id |= uint32(b.Power&0xf) << idPowerShift
	id |= uint32(b.Instrument&0x1f) << idInstrumentShft
	id |= uint32(b.Note&0x1f) << idNoteShift
	return id
}

// BlockFromID decodes the raw block ID.
func BlockFromID(id uint32) (Block, error) {
	t := BlockType(id & idTypeMask)
	if t >= numBlockTypes {
		return Block{}, fmt.Errorf("invalid block type %d in ID %x", t, id)
	}
	if id>>28 != 0 {
		return Block{}, fmt.Errorf("invalid block ID %x", id)
	}
	facing := Direction((id >> idFacingShift) & 0x7)
	if facing > East {
		return Block{}, fmt.Errorf("invalid facing %d in ID %x", facing, id)
	}
	return Block{
		Type:       t,
		Facing:     facing,
		Delay:      uint8((id >> idDelayShift) & 0x7),
		Locked:     id&idLocked != 0,
		Powered:    id&idPowered != 0,
		Subtract:   id&idSubtract != 0,
		Power:      uint8((id >> idPowerShift) & 0xf),
		Instrument: uint8((id >> idInstrumentShft) & 0x1f),
		Note:       uint8((id >> idNoteShift) & 0x1f),
	}, nil
}

func (b Block) String() string {
	var sb strings.Builder
	sb.WriteString(b.Type.String())

	switch b.Type {
	case Repeater:
		fmt.Fprintf(&sb, "[facing=%s,delay=%d,locked=%v,powered=%v]",
			b.Facing, b.Delay, b.Locked, b.Powered)
	case Comparator:
		mode := "compare"
		if b.Subtract {
			mode = "subtract"
		}
		fmt.Fprintf(&sb, "[facing=%s,mode=%s,power=%d]",
			b.Facing, mode, b.Power)
	case Torch, Lever, Button, PressurePlate:
		fmt.Fprintf(&sb, "[facing=%s,powered=%v]", b.Facing, b.Powered)
	case Wire, Container:
		fmt.Fprintf(&sb, "[power=%d]", b.Power)
	case Lamp, Trapdoor:
		fmt.Fprintf(&sb, "[powered=%v]", b.Powered)
	case NoteBlock:
		fmt.Fprintf(&sb, "[instrument=%d,note=%d,powered=%v]",
			b.Instrument, b.Note, b.Powered)
	}
	return sb.String()
}
