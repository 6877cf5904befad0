//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var reParts = regexp.MustCompilePOSIX("[[:space:]]+")

// IsFilename tests if the argument file is a world file.
func IsFilename(file string) bool {
	return strings.HasSuffix(file, ".world")
}

// ParseFile parses the world file.
func ParseFile(file string) (*MemWorld, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(file, f)
}

// Parse parses world data from the reader. Each non-empty line
// specifies one block:
//
//	x y z type [key=value]...
//
// Text after '#' is ignored.
func Parse(source string, in io.Reader) (*MemWorld, error) {
	w := NewMemWorld()
	r := bufio.NewReader(in)

	for lineno := 1; ; lineno++ {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if len(line) > 0 {
			pos, block, perr := parseBlock(reParts.Split(line, -1))
			if perr != nil {
				return nil, fmt.Errorf("%s:%d: %w", source, lineno, perr)
			}
			w.SetBlock(pos, block)
		}
		if err == io.EOF {
			break
		}
	}
	return w, nil
}

func parseBlock(parts []string) (BlockPos, Block, error) {
	var pos BlockPos
	var block Block

	if len(parts) < 4 {
		return pos, block, fmt.Errorf("invalid block: %v", parts)
	}
	var coords [3]int32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseInt(parts[i], 10, 32)
		if err != nil {
			return pos, block, fmt.Errorf("invalid coordinate '%s'", parts[i])
		}
		coords[i] = int32(v)
	}
	pos = BlockPos{X: coords[0], Y: coords[1], Z: coords[2]}

	t, err := ParseBlockType(parts[3])
	if err != nil {
		return pos, block, err
	}
	block = defaultBlock(t)

	for _, kv := range parts[4:] {
		idx := strings.IndexByte(kv, '=')
		if idx < 0 {
			return pos, block, fmt.Errorf("invalid property '%s'", kv)
		}
		if err := block.setProperty(kv[:idx], kv[idx+1:]); err != nil {
			return pos, block, err
		}
	}
	return pos, block, nil
}

func defaultBlock(t BlockType) Block {
	block := Block{
		Type: t,
	}
	switch t {
	case Repeater:
		block.Delay = 1
		block.Facing = North
	case Comparator:
		block.Facing = North
	case Torch, Lever, Button, PressurePlate:
		block.Facing = Down
	}
	return block
}

func (b *Block) setProperty(key, value string) error {
	switch key {
	case "facing":
		dir, err := ParseDirection(value)
		if err != nil {
			return err
		}
		b.Facing = dir

	case "delay":
		v, err := parseRange(key, value, 1, 4)
		if err != nil {
			return err
		}
		b.Delay = v

	case "locked":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid locked '%s'", value)
		}
		b.Locked = v

	case "powered":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid powered '%s'", value)
		}
		b.Powered = v

	case "mode":
		switch value {
		case "compare":
			b.Subtract = false
		case "subtract":
			b.Subtract = true
		default:
			return fmt.Errorf("invalid mode '%s'", value)
		}

	case "power":
		v, err := parseRange(key, value, 0, 15)
		if err != nil {
			return err
		}
		b.Power = v

	case "instrument":
		v, err := parseRange(key, value, 0, 31)
		if err != nil {
			return err
		}
		b.Instrument = v

	case "note":
		v, err := parseRange(key, value, 0, 24)
		if err != nil {
			return err
		}
		b.Note = v

	default:
		return fmt.Errorf("unknown property '%s'", key)
	}
	return nil
}

func parseRange(key, value string, lo, hi int) (uint8, error) {
	v, err := strconv.Atoi(value)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s '%s': expected %d-%d",
			key, value, lo, hi)
	}
	return uint8(v), nil
}
