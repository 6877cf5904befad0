//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/markkurossi/redpiler/netlist"
	"github.com/markkurossi/redpiler/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name  string
	log   *[]string
	err   error
	run   func(g *graph.Graph)
	check func(params *utils.Params) bool
}

func (r *recorder) Name() string {
	return r.name
}

func (r *recorder) StatusMessage() string {
	return "Running " + r.name
}

func (r *recorder) ShouldRun(params *utils.Params) bool {
	if r.check != nil {
		return r.check(params)
	}
	return true
}

func (r *recorder) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	*r.log = append(*r.log, r.name)
	if r.run != nil {
		r.run(g)
	}
	return r.err
}

type buffer struct {
	bytes.Buffer
}

func (b *buffer) Close() error {
	return nil
}

func TestManagerOrder(t *testing.T) {
	var log []string
	m := NewManager(nil,
		&recorder{name: "a", log: &log},
		&recorder{name: "b", log: &log, run: func(g *graph.Graph) {
			lever(g)
		}},
		&recorder{name: "c", log: &log, check: func(p *utils.Params) bool {
			return p.Optimize
		}},
		&recorder{name: "d", log: &log},
	)
	params := testParams()
	params.Optimize = false
	params.Disabled["d"] = true

	g, err := m.Run(params, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, log)
	assert.Equal(t, 1, g.NumNodes())

	done, total := m.Monitor().Progress()
	assert.Equal(t, 4, done)
	assert.Equal(t, 4, total)
	assert.Equal(t, "Done", m.Monitor().Status())

	samples := m.Timing().Samples
	require.Len(t, samples, 2)
	assert.Equal(t, "b", samples[1].Label)
	assert.Equal(t, 1, samples[1].Nodes)

	var buf bytes.Buffer
	m.Timing().Print(&buf)
	assert.Contains(t, buf.String(), "Total")
}

func TestManagerCancel(t *testing.T) {
	var log []string
	monitor := NewMonitor()
	m := NewManager(monitor,
		&recorder{name: "a", log: &log, run: func(g *graph.Graph) {
			lever(g)
			monitor.Cancel()
		}},
		&recorder{name: "b", log: &log},
	)
	g, err := m.Run(testParams(), nil)
	assert.ErrorIs(t, err, ErrCancelled)
	require.NotNil(t, g)
	assert.Equal(t, 1, g.NumNodes())
	assert.Equal(t, []string{"a"}, log)
	assert.True(t, monitor.Cancelled())

	done, total := monitor.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)
}

func TestManagerError(t *testing.T) {
	var log []string
	failure := errors.New("boom")
	m := NewManager(nil,
		&recorder{name: "a", log: &log, err: failure},
		&recorder{name: "b", log: &log},
	)
	_, err := m.Run(testParams(), nil)
	assert.ErrorIs(t, err, failure)
	assert.EqualError(t, err, "a: boom")
	assert.Equal(t, []string{"a"}, log)
}

func TestDefaultPassNames(t *testing.T) {
	expected := []string{
		"IdentifyNodes",
		"InputSearch",
		"ClampWeights",
		"DedupLinks",
		"AnalogRepeaters",
		"ConstantFold",
		"UnreachableOutput",
		"ConstantCoalesce",
		"Coalesce",
		"PruneOrphans",
		"ExportGraph",
	}
	var names []string
	for _, pass := range DefaultPasses() {
		names = append(names, pass.Name())
		assert.NotEmpty(t, pass.StatusMessage())
	}
	assert.Equal(t, expected, names)

	params := testParams()
	params.Optimize = false
	var enabled []string
	for _, pass := range DefaultPasses() {
		if pass.ShouldRun(params) {
			enabled = append(enabled, pass.Name())
		}
	}
	assert.Equal(t, []string{"IdentifyNodes", "InputSearch", "ClampWeights"},
		enabled)
}

var pipelineWorld = `
# lever -> torch -> lamp
0 0 0 solid
0 1 0 lever facing=down
1 0 0 torch facing=west
2 0 0 lamp

# constant powered lamp
0 0 4 redstone_block
1 0 4 wire
2 0 4 lamp

# dangling logic
5 0 0 redstone_block
6 0 0 repeater facing=east
7 0 0 repeater facing=east
`

func TestPipeline(t *testing.T) {
	input := parseInput(t, pipelineWorld)

	for _, optimize := range []bool{false, true} {
		out := new(buffer)
		params := testParams()
		params.Optimize = optimize
		params.Export = true
		params.ExportOut = out

		g, err := NewManager(nil, DefaultPasses()...).Run(params, input)
		require.NoError(t, err)

		// Inputs and outputs survive all optimizations.
		in := nodeAt(t, g, world.BlockPos{Y: 1})
		assert.True(t, g.Node(in).IsInput)
		for _, pos := range []world.BlockPos{{X: 2}, {X: 2, Z: 4}} {
			assert.True(t, g.Node(nodeAt(t, g, pos)).IsOutput)
		}
		for _, eid := range g.EdgeIDs() {
			assert.LessOrEqual(t, g.Edge(eid).Link.SignalStrength,
				uint8(graph.MaxStrength))
		}

		n, err := netlist.Unmarshal(bytes.NewReader(out.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, g.NumNodes(), len(n.Nodes))

		if !optimize {
			continue
		}

		// Constant lamp is settled and the dangling logic is gone.
		lit := g.Node(nodeAt(t, g, world.BlockPos{X: 2, Z: 4}))
		assert.True(t, lit.State.Powered)
		assert.Equal(t, uint8(15), lit.State.OutputStrength)
		for _, id := range g.NodeIDs() {
			assert.NotEqual(t, graph.Repeater, g.Node(id).Kind.Type)
			assert.NotEqual(t, graph.Wire, g.Node(id).Kind.Type)
		}

		torch := nodeAt(t, g, world.BlockPos{X: 1})
		assert.Equal(t, []graph.NodeID{torch}, g.Successors(in))
		assert.Equal(t, 5, g.NumNodes())
	}
}

func TestExportGraphFile(t *testing.T) {
	g := graph.New()
	in := lever(g)
	out := lamp(g)
	g.AddEdge(in, out, link(graph.Default, 0))
	before := g.String()

	params := testParams()
	params.ExportPath = filepath.Join(t.TempDir(), "graph.bin")

	pass := new(ExportGraph)
	assert.False(t, pass.ShouldRun(params))
	params.Export = true
	assert.True(t, pass.ShouldRun(params))

	require.NoError(t, pass.Run(g, params, nil))
	assert.Equal(t, before, g.String())

	f, err := os.Open(params.ExportPath)
	require.NoError(t, err)
	defer f.Close()
	n, err := netlist.Unmarshal(f)
	require.NoError(t, err)
	require.Len(t, n.Nodes, 2)
	assert.True(t, n.Nodes[0].IsInput)
	assert.True(t, n.Nodes[1].IsOutput)

	params.ExportPath = filepath.Join(t.TempDir(), "missing", "graph.bin")
	assert.Error(t, pass.Run(g, params, nil))
}
