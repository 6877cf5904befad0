//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package netlist

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/world"
	"golang.org/x/crypto/blake2b"
)

const (
	// MAGIC is a magic number for the exported graph format.
	MAGIC = 0x72706700 // rpg0
	// Version is the exported graph format version.
	Version = 1

	maxPrealloc = 1024
)

var (
	bo = binary.BigEndian
)

// Node record flags.
const (
	flagFacingDiode = 1 << iota
	flagHasFarInput
	flagInput
	flagOutput
	flagPowered
	flagLocked
	flagSubtract
)

// Marshal marshals the netlist in the exported graph format. The
// records are followed by a BLAKE2b-256 digest of the preceding
// data.
func (n *Netlist) Marshal(out io.Writer) error {
	h, err := blake2b.New256(nil)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(io.MultiWriter(out, h))

	var data = []interface{}{
		uint32(MAGIC),
		uint32(Version),
		uint32(len(n.Nodes)),
	}
	if err := write(bw, data); err != nil {
		return err
	}
	for _, node := range n.Nodes {
		if err := marshalNode(bw, node); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	_, err = out.Write(h.Sum(nil))
	return err
}

func write(out io.Writer, data []interface{}) error {
	for _, v := range data {
		if err := binary.Write(out, bo, v); err != nil {
			return err
		}
	}
	return nil
}

func marshalNode(out io.Writer, node Node) error {
	var flags uint8
	if node.Kind.FacingDiode {
		flags |= flagFacingDiode
	}
	if node.Kind.HasFarInput {
		flags |= flagHasFarInput
	}
	if node.Kind.Mode == graph.Subtract {
		flags |= flagSubtract
	}
	if node.IsInput {
		flags |= flagInput
	}
	if node.IsOutput {
		flags |= flagOutput
	}
	if node.State.Powered {
		flags |= flagPowered
	}
	if node.State.RepeaterLocked {
		flags |= flagLocked
	}

	var data = []interface{}{
		uint8(node.Kind.Type),
		flags,
		node.Kind.Delay,
		node.Kind.FarInput,
		node.Kind.Instrument,
		node.Kind.Note,
		node.State.OutputStrength,
		uint32(len(node.Blocks)),
	}
	for _, b := range node.Blocks {
		data = append(data, b.Pos.X, b.Pos.Y, b.Pos.Z, b.ID)
	}
	data = append(data, uint32(len(node.Inputs)))
	for _, in := range node.Inputs {
		data = append(data, uint8(in.Type), in.Weight, in.Source)
	}
	data = append(data, uint32(len(node.Outputs)))
	for _, o := range node.Outputs {
		data = append(data, o)
	}
	return write(out, data)
}

// Unmarshal parses a netlist in the exported graph format and
// verifies its digest.
func Unmarshal(in io.Reader) (*Netlist, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	r := io.TeeReader(bufio.NewReader(in), h)

	var hdr struct {
		Magic    uint32
		Version  uint32
		NumNodes uint32
	}
	if err := binary.Read(r, bo, &hdr); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if hdr.Magic != MAGIC {
		return nil, fmt.Errorf("invalid magic: %x", hdr.Magic)
	}
	if hdr.Version != Version {
		return nil, fmt.Errorf("unsupported version %d", hdr.Version)
	}
	if hdr.NumNodes > MaxNodes {
		return nil, fmt.Errorf("too many nodes: %d", hdr.NumNodes)
	}

	// The node slice grows as the records arrive so a corrupted
	// header can't allocate more than the data carries.
	result := &Netlist{
		Nodes: make([]Node, 0, min(hdr.NumNodes, maxPrealloc)),
	}
	for idx := uint32(0); idx < hdr.NumNodes; idx++ {
		var node Node
		if err := unmarshalNode(r, &node, hdr.NumNodes); err != nil {
			return nil, fmt.Errorf("node %d: %w", idx, err)
		}
		result.Nodes = append(result.Nodes, node)
	}

	sum := h.Sum(nil)
	digest := make([]byte, len(sum))
	if _, err := io.ReadFull(r, digest); err != nil {
		return nil, fmt.Errorf("failed to read digest: %w", err)
	}
	if !bytes.Equal(sum, digest) {
		return nil, fmt.Errorf("digest mismatch")
	}
	result.link()

	return result, nil
}

func unmarshalNode(r io.Reader, node *Node, numNodes uint32) error {
	var rec struct {
		Type       uint8
		Flags      uint8
		Delay      uint8
		FarInput   uint8
		Instrument uint8
		Note       uint8
		Strength   uint8
		NumBlocks  uint32
	}
	if err := binary.Read(r, bo, &rec); err != nil {
		return err
	}
	if rec.Type > uint8(graph.NoteBlock) {
		return fmt.Errorf("invalid node type %d", rec.Type)
	}
	if rec.Strength > graph.MaxStrength {
		return fmt.Errorf("invalid output strength %d", rec.Strength)
	}
	node.Kind = graph.Kind{
		Type:        graph.NodeType(rec.Type),
		Delay:       rec.Delay,
		FacingDiode: rec.Flags&flagFacingDiode != 0,
		FarInput:    rec.FarInput,
		HasFarInput: rec.Flags&flagHasFarInput != 0,
		Instrument:  rec.Instrument,
		Note:        rec.Note,
	}
	if rec.Flags&flagSubtract != 0 {
		node.Kind.Mode = graph.Subtract
	}
	node.State = graph.State{
		Powered:        rec.Flags&flagPowered != 0,
		RepeaterLocked: rec.Flags&flagLocked != 0,
		OutputStrength: rec.Strength,
	}
	node.IsInput = rec.Flags&flagInput != 0
	node.IsOutput = rec.Flags&flagOutput != 0

	for i := uint32(0); i < rec.NumBlocks; i++ {
		var b struct {
			X, Y, Z int32
			ID      uint32
		}
		if err := binary.Read(r, bo, &b); err != nil {
			return err
		}
		node.Blocks = append(node.Blocks, graph.BlockRef{
			Pos: world.BlockPos{X: b.X, Y: b.Y, Z: b.Z},
			ID:  b.ID,
		})
	}

	var count uint32
	if err := binary.Read(r, bo, &count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		var in struct {
			Type   uint8
			Weight uint8
			Source uint32
		}
		if err := binary.Read(r, bo, &in); err != nil {
			return err
		}
		if in.Type > uint8(graph.Side) || in.Weight > graph.MaxStrength ||
			in.Source >= numNodes {
			return fmt.Errorf("invalid input %+v", in)
		}
		node.Inputs = append(node.Inputs, Input{
			Type:   graph.LinkType(in.Type),
			Weight: in.Weight,
			Source: in.Source,
		})
	}

	if err := binary.Read(r, bo, &count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		var o uint32
		if err := binary.Read(r, bo, &o); err != nil {
			return err
		}
		if o >= numNodes {
			return fmt.Errorf("invalid output %d", o)
		}
		node.Outputs = append(node.Outputs, o)
	}
	return nil
}
