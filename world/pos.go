//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package world

import (
	"fmt"
)

// BlockPos specifies a block position in the world.
type BlockPos struct {
	X int32
	Y int32
	Z int32
}

func (p BlockPos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Offset returns the position next to p in the direction dir.
func (p BlockPos) Offset(dir Direction) BlockPos {
	switch dir {
	case Down:
		p.Y--
	case Up:
		p.Y++
	case North:
		p.Z--
	case South:
		p.Z++
	case West:
		p.X--
	case East:
		p.X++
	}
	return p
}

// Direction specifies a block face direction.
type Direction uint8

// Block face directions.
const (
	Down Direction = iota
	Up
	North
	South
	West
	East
)

// Directions lists all block face directions.
var Directions = [6]Direction{Down, Up, North, South, West, East}

// Horizontal lists the horizontal block face directions.
var Horizontal = [4]Direction{North, East, South, West}

var directionNames = map[Direction]string{
	Down:  "down",
	Up:    "up",
	North: "north",
	South: "south",
	West:  "west",
	East:  "east",
}

func (d Direction) String() string {
	name, ok := directionNames[d]
	if ok {
		return name
	}
	return fmt.Sprintf("{Direction %d}", d)
}

// ParseDirection parses the direction name.
func ParseDirection(name string) (Direction, error) {
	for k, v := range directionNames {
		if v == name {
			return k, nil
		}
	}
	return Down, fmt.Errorf("unknown direction: %s", name)
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Down:
		return Up
	case Up:
		return Down
	case North:
		return South
	case South:
		return North
	case West:
		return East
	default:
		return West
	}
}

// IsHorizontal tests if the direction is horizontal.
func (d Direction) IsHorizontal() bool {
	return d != Down && d != Up
}

// RotateCW rotates a horizontal direction clockwise. Vertical
// directions are returned unchanged.
func (d Direction) RotateCW() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	default:
		return d
	}
}

// RotateCCW rotates a horizontal direction counter-clockwise.
func (d Direction) RotateCCW() Direction {
	return d.RotateCW().Opposite()
}

// Bounds specifies an inclusive block region.
type Bounds struct {
	Min BlockPos
	Max BlockPos
}

func (b Bounds) String() string {
	return fmt.Sprintf("%v-%v", b.Min, b.Max)
}

// Valid tests if the bounds are well formed.
func (b Bounds) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Contains tests if the position is inside the bounds.
func (b Bounds) Contains(p BlockPos) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ForEach calls f for each position in the bounds in Y, Z, X order.
// The iteration is inclusive and terminates also when a bound is
// math.MaxInt32.
func (b Bounds) ForEach(f func(p BlockPos)) {
	if !b.Valid() {
		return
	}
	for y := b.Min.Y; ; y++ {
		for z := b.Min.Z; ; z++ {
			for x := b.Min.X; ; x++ {
				f(BlockPos{X: x, Y: y, Z: z})
				if x == b.Max.X {
					break
				}
			}
			if z == b.Max.Z {
				break
			}
		}
		if y == b.Max.Y {
			break
		}
	}
}
