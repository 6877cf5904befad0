//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/netlist"
	"github.com/markkurossi/redpiler/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeObject(t *testing.T) string {
	g := graph.New()
	lever := g.AddNode(graph.Node{
		Kind: graph.NewKind(graph.Lever),
		Blocks: []graph.BlockRef{{
			Pos: world.BlockPos{X: 1},
			ID:  world.Block{Type: world.Lever}.ID(),
		}},
		IsInput: true,
	})
	lamp := g.AddNode(graph.Node{
		Kind: graph.NewKind(graph.Lamp),
		Blocks: []graph.BlockRef{{
			Pos: world.BlockPos{X: 2},
			ID:  world.Block{Type: world.Lamp}.ID(),
		}},
		IsOutput: true,
	})
	g.AddEdge(lever, lamp, graph.Link{})

	n, err := netlist.Flatten(g)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, n.Marshal(&buf))

	file := filepath.Join(t.TempDir(), "lamp.bin")
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0644))
	return file
}

func TestDumpObject(t *testing.T) {
	file := writeObject(t)

	var out bytes.Buffer
	require.NoError(t, dumpObject(&out, file, options{summary: true}))
	assert.Equal(t, file+": #nodes=2 #links=1\n", out.String())

	out.Reset()
	require.NoError(t, dumpObject(&out, file, options{
		blocks: true,
		settle: 10,
	}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.True(t, len(lines) > 3, out.String())
	assert.True(t, strings.HasPrefix(lines[len(lines)-2], "0\t"), out.String())
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "1\t"), out.String())
	assert.False(t, strings.Contains(out.String(), "no steady state"))
}

func TestDumpObjectErrors(t *testing.T) {
	dir := t.TempDir()

	err := dumpObject(&bytes.Buffer{}, filepath.Join(dir, "missing.bin"),
		options{})
	assert.Error(t, err)

	file := filepath.Join(dir, "bad.bin")
	require.NoError(t, os.WriteFile(file, []byte("rpg"), 0644))
	err = dumpObject(&bytes.Buffer{}, file, options{})
	assert.Error(t, err)
}
