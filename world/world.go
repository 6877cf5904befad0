//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package world

import (
	"fmt"
	"sort"
)

// TickPriority specifies the priority of a scheduled block tick.
type TickPriority uint8

// Tick priorities, highest first.
const (
	Highest TickPriority = iota
	Higher
	High
	Normal
)

func (p TickPriority) String() string {
	switch p {
	case Highest:
		return "highest"
	case Higher:
		return "higher"
	case High:
		return "high"
	case Normal:
		return "normal"
	default:
		return fmt.Sprintf("{TickPriority %d}", p)
	}
}

// World provides block access and tick scheduling for a region of
// the simulation.
type World interface {
	// GetBlock returns the block at the position. Positions without
	// blocks return Air.
	GetBlock(pos BlockPos) Block
	// SetBlock sets the block at the position and reports if the
	// block was changed.
	SetBlock(pos BlockPos, block Block) bool
	// ScheduleTick schedules a block tick at the position after
	// delay ticks.
	ScheduleTick(pos BlockPos, delay int, priority TickPriority)
	// PendingTickAt tests if a tick is pending at the position.
	PendingTickAt(pos BlockPos) bool
}

// Tick specifies a scheduled block tick.
type Tick struct {
	Pos      BlockPos
	Delay    int
	Priority TickPriority
}

// MemWorld implements an in-memory World.
type MemWorld struct {
	blocks  map[BlockPos]Block
	pending []Tick
}

// NewMemWorld creates an empty in-memory world.
func NewMemWorld() *MemWorld {
	return &MemWorld{
		blocks: make(map[BlockPos]Block),
	}
}

// GetBlock implements World.GetBlock.
func (w *MemWorld) GetBlock(pos BlockPos) Block {
	return w.blocks[pos]
}

// SetBlock implements World.SetBlock.
func (w *MemWorld) SetBlock(pos BlockPos, block Block) bool {
	old, ok := w.blocks[pos]
	if ok && old == block {
		return false
	}
	if block.Type == Air {
		if !ok {
			return false
		}
		delete(w.blocks, pos)
		return true
	}
	w.blocks[pos] = block
	return true
}

// ScheduleTick implements World.ScheduleTick.
func (w *MemWorld) ScheduleTick(pos BlockPos, delay int,
	priority TickPriority) {
	w.pending = append(w.pending, Tick{
		Pos:      pos,
		Delay:    delay,
		Priority: priority,
	})
}

// PendingTickAt implements World.PendingTickAt.
func (w *MemWorld) PendingTickAt(pos BlockPos) bool {
	for _, t := range w.pending {
		if t.Pos == pos {
			return true
		}
	}
	return false
}

// Ticks returns the pending ticks ordered by delay and priority.
func (w *MemWorld) Ticks() []Tick {
	result := make([]Tick, len(w.pending))
	copy(result, w.pending)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Delay != result[j].Delay {
			return result[i].Delay < result[j].Delay
		}
		return result[i].Priority < result[j].Priority
	})
	return result
}

// NumBlocks returns the number of non-air blocks.
func (w *MemWorld) NumBlocks() int {
	return len(w.blocks)
}

// Extent returns the smallest bounds containing all non-air blocks.
// The function returns false if the world is empty.
func (w *MemWorld) Extent() (Bounds, bool) {
	var b Bounds
	var found bool

	for pos := range w.blocks {
		if !found {
			b.Min = pos
			b.Max = pos
			found = true
			continue
		}
		b.Min.X = min(b.Min.X, pos.X)
		b.Min.Y = min(b.Min.Y, pos.Y)
		b.Min.Z = min(b.Min.Z, pos.Z)
		b.Max.X = max(b.Max.X, pos.X)
		b.Max.Y = max(b.Max.Y, pos.Y)
		b.Max.Z = max(b.Max.Z, pos.Z)
	}
	return b, found
}
