//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"testing"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/netlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(g *graph.Graph, ss uint8) graph.NodeID {
	return g.AddNode(graph.Node{
		Kind:  graph.NewKind(graph.Constant),
		State: graph.StrengthState(ss),
	})
}

func lever(g *graph.Graph) graph.NodeID {
	return g.AddNode(graph.Node{
		Kind:    graph.NewKind(graph.Lever),
		IsInput: true,
	})
}

func lamp(g *graph.Graph) graph.NodeID {
	return g.AddNode(graph.Node{
		Kind:     graph.NewKind(graph.Lamp),
		IsOutput: true,
	})
}

func gate(g *graph.Graph, kind graph.Kind) graph.NodeID {
	return g.AddNode(graph.Node{
		Kind: kind,
	})
}

func link(lt graph.LinkType, ss uint8) graph.Link {
	return graph.Link{
		Type:           lt,
		SignalStrength: ss,
	}
}

func TestClampWeights(t *testing.T) {
	g := graph.New()
	a := lever(g)
	b := lamp(g)
	e1 := g.AddEdge(a, b, link(graph.Default, 40))
	e2 := g.AddEdge(a, b, link(graph.Side, 3))

	assert.Equal(t, 1, clampWeights(g))
	assert.Equal(t, uint8(15), g.Edge(e1).Link.SignalStrength)
	assert.Equal(t, uint8(3), g.Edge(e2).Link.SignalStrength)
	assert.Equal(t, 0, clampWeights(g))
}

func TestDedupLinks(t *testing.T) {
	g := graph.New()
	a := lever(g)
	b := gate(g, graph.NewComparator(graph.Compare, false))
	g.AddEdge(a, b, link(graph.Default, 5))
	best := g.AddEdge(a, b, link(graph.Default, 2))
	g.AddEdge(a, b, link(graph.Default, 9))
	side := g.AddEdge(a, b, link(graph.Side, 7))

	assert.Equal(t, 2, dedupLinks(g))
	assert.ElementsMatch(t, []graph.EdgeID{best, side}, g.Incoming(b))
	assert.Equal(t, 0, dedupLinks(g))
}

func TestConstantFold(t *testing.T) {
	g := graph.New()
	c10 := constant(g, 10)
	c3 := constant(g, 3)
	cmp := gate(g, graph.NewComparator(graph.Compare, false))
	out := lamp(g)
	g.AddEdge(c10, cmp, link(graph.Default, 0))
	g.AddEdge(c3, cmp, link(graph.Side, 0))
	g.AddEdge(cmp, out, link(graph.Default, 0))

	assert.Equal(t, 1, constantFold(g))
	n := g.Node(cmp)
	assert.Equal(t, graph.Constant, n.Kind.Type)
	assert.Equal(t, uint8(10), n.State.OutputStrength)
	assert.Equal(t, 0, g.NumIncoming(cmp))
	assert.Equal(t, 1, g.NumOutgoing(cmp))

	// Outputs are never folded.
	assert.Equal(t, graph.Lamp, g.Node(out).Kind.Type)
	assert.Equal(t, 0, constantFold(g))
}

func TestConstantFoldSideWins(t *testing.T) {
	g := graph.New()
	c10 := constant(g, 10)
	c12 := constant(g, 12)
	cmp := gate(g, graph.NewComparator(graph.Compare, false))
	g.AddEdge(c10, cmp, link(graph.Default, 0))
	g.AddEdge(c12, cmp, link(graph.Side, 0))

	constantFold(g)
	assert.Equal(t, graph.Constant, g.Node(cmp).Kind.Type)
	assert.Equal(t, uint8(0), g.Node(cmp).State.OutputStrength)
}

func TestConstantFoldChain(t *testing.T) {
	g := graph.New()
	c := constant(g, 15)
	t1 := gate(g, graph.NewKind(graph.Torch))
	t2 := gate(g, graph.NewKind(graph.Torch))
	r := gate(g, graph.NewRepeater(2, false))
	in := lever(g)
	mixed := gate(g, graph.NewKind(graph.Torch))
	g.AddEdge(c, t1, link(graph.Default, 0))
	g.AddEdge(t1, t2, link(graph.Default, 0))
	g.AddEdge(t2, r, link(graph.Default, 3))
	g.AddEdge(t2, mixed, link(graph.Default, 0))
	g.AddEdge(in, mixed, link(graph.Default, 0))

	assert.Equal(t, 3, constantFold(g))
	assert.Equal(t, uint8(0), g.Node(t1).State.OutputStrength)
	assert.Equal(t, uint8(15), g.Node(t2).State.OutputStrength)
	assert.Equal(t, uint8(15), g.Node(r).State.OutputStrength)
	assert.Equal(t, graph.Torch, g.Node(mixed).Kind.Type)
	assert.Equal(t, graph.Lever, g.Node(in).Kind.Type)
}

// analogBus creates a lever driving a comparator that drives the
// destination comparator through a 15-repeater analog bus.
func analogBus(g *graph.Graph) (in, src, dst, out graph.NodeID,
	reps []graph.NodeID) {

	in = lever(g)
	src = gate(g, graph.NewComparator(graph.Compare, false))
	dst = gate(g, graph.NewComparator(graph.Compare, false))
	out = lamp(g)
	g.AddEdge(in, src, link(graph.Default, 0))
	g.AddEdge(dst, out, link(graph.Default, 0))

	for i := uint8(0); i < analogBusWidth; i++ {
		rep := gate(g, graph.NewRepeater(1, false))
		g.AddEdge(src, rep, link(graph.Default, i))
		g.AddEdge(rep, dst, link(graph.Default, analogBusWidth-1-i))
		reps = append(reps, rep)
	}
	return
}

func settledOutput(t *testing.T, g *graph.Graph, in, out graph.NodeID,
	ss uint8) uint8 {

	g = g.Clone()
	g.Node(in).State = graph.StrengthState(ss)
	n, err := netlist.Flatten(g)
	require.NoError(t, err)
	require.True(t, n.Settle(10))

	for idx, id := range g.NodeIDs() {
		if id == out {
			return n.Nodes[idx].State.OutputStrength
		}
	}
	t.Fatalf("output %v not found", out)
	return 0
}

func TestAnalogRepeaters(t *testing.T) {
	g := graph.New()
	in, src, dst, out, reps := analogBus(g)
	orig := g.Clone()

	assert.Equal(t, 1, collapseAnalogBuses(g))
	for _, rep := range reps {
		assert.False(t, g.Contains(rep))
	}
	require.Equal(t, 1, g.NumOutgoing(src))
	bus := g.Edge(g.Outgoing(src)[0]).Target
	assert.Equal(t, graph.NewComparator(graph.Compare, false), g.Node(bus).Kind)
	assert.Equal(t, []graph.NodeID{dst}, g.Successors(bus))
	assert.Equal(t, 1, g.NumIncoming(dst))

	for ss := uint8(0); ss <= graph.MaxStrength; ss++ {
		assert.Equal(t, settledOutput(t, orig, in, out, ss),
			settledOutput(t, g, in, out, ss), "input %d", ss)
		assert.Equal(t, ss, settledOutput(t, g, in, out, ss))
	}

	assert.Equal(t, 0, collapseAnalogBuses(g))
}

func TestAnalogRepeatersNoMatch(t *testing.T) {
	g := graph.New()
	_, _, _, _, reps := analogBus(g)
	g.Node(reps[4]).Kind = graph.NewRepeater(2, false)
	assert.Equal(t, 0, collapseAnalogBuses(g))

	g = graph.New()
	_, src, dst, _, _ := analogBus(g)
	extra := gate(g, graph.NewRepeater(1, false))
	g.AddEdge(src, extra, link(graph.Default, 0))
	g.AddEdge(extra, dst, link(graph.Default, 14))
	assert.Equal(t, 0, collapseAnalogBuses(g))

	g = graph.New()
	_, _, _, _, reps = analogBus(g)
	g.Node(reps[0]).IsOutput = true
	assert.Equal(t, 0, collapseAnalogBuses(g))

	g = graph.New()
	_, src, _, _, reps = analogBus(g)
	e := g.Edge(g.Incoming(reps[3])[0])
	e.Link.SignalStrength = 4
	assert.Equal(t, 0, collapseAnalogBuses(g))
	assert.Equal(t, analogBusWidth, g.NumOutgoing(src))
}

func TestUnreachableOutput(t *testing.T) {
	g := graph.New()
	c3 := constant(g, 3)
	r1 := gate(g, graph.NewRepeater(1, false))
	r2 := gate(g, graph.NewRepeater(1, false))
	dead := g.AddEdge(c3, r1, link(graph.Default, 3))
	live := g.AddEdge(c3, r2, link(graph.Default, 2))

	sub := gate(g, graph.NewComparator(graph.Subtract, false))
	c10 := constant(g, 10)
	in := lever(g)
	g.AddEdge(c10, sub, link(graph.Side, 0))
	g.AddEdge(in, sub, link(graph.Default, 0))
	subDead := g.AddEdge(sub, r2, link(graph.Default, 5))
	subLive := g.AddEdge(sub, r1, link(graph.Default, 4))

	assert.Equal(t, 2, pruneDeadLinks(g))
	assert.Nil(t, g.Edge(dead))
	assert.Nil(t, g.Edge(subDead))
	assert.NotNil(t, g.Edge(live))
	assert.NotNil(t, g.Edge(subLive))
}

func TestSettleOutputs(t *testing.T) {
	g := graph.New()
	c12 := constant(g, 12)
	out := lamp(g)
	g.AddEdge(c12, out, link(graph.Default, 2))
	g.AddEdge(c12, out, link(graph.Default, 5))

	dark := lamp(g)
	c2 := constant(g, 2)
	g.AddEdge(c2, dark, link(graph.Default, 4))

	assert.Equal(t, 2, settleOutputs(g))

	n := g.Node(out)
	assert.True(t, n.IsOutput)
	assert.True(t, n.State.Powered)
	assert.Equal(t, uint8(10), n.State.OutputStrength)
	require.Equal(t, 1, g.NumIncoming(out))
	e := g.Edge(g.Incoming(out)[0])
	assert.Equal(t, link(graph.Default, 0), e.Link)
	assert.Equal(t, uint8(10), g.Node(e.Source).State.OutputStrength)

	assert.False(t, g.Node(dark).State.Powered)
	assert.Equal(t, 0, g.NumIncoming(dark))

	assert.Equal(t, 0, settleOutputs(g))
}

func TestConstantCoalesce(t *testing.T) {
	g := graph.New()

	// Component A: two strength 15 constants and a strength 7
	// constant.
	inA := lever(g)
	cmpA := gate(g, graph.NewComparator(graph.Compare, false))
	outA := lamp(g)
	a1 := constant(g, 15)
	a2 := constant(g, 15)
	a7 := constant(g, 7)
	g.AddEdge(inA, cmpA, link(graph.Default, 0))
	g.AddEdge(cmpA, outA, link(graph.Default, 0))
	g.AddEdge(a1, cmpA, link(graph.Side, 1))
	g.AddEdge(a2, cmpA, link(graph.Side, 2))
	g.AddEdge(a7, outA, link(graph.Default, 0))

	// Component B shares constant a2 with component A.
	inB := lever(g)
	cmpB := gate(g, graph.NewComparator(graph.Compare, false))
	outB := lamp(g)
	g.AddEdge(inB, cmpB, link(graph.Default, 0))
	g.AddEdge(cmpB, outB, link(graph.Default, 0))
	shared := g.AddEdge(a2, cmpB, link(graph.Side, 0))

	constantCoalesce(g)

	assert.True(t, g.Contains(a1))
	assert.True(t, g.Contains(a7))
	for _, eid := range g.Incoming(cmpA) {
		e := g.Edge(eid)
		if e.Link.Type == graph.Side {
			assert.Equal(t, a1, e.Source)
		}
	}
	src := g.Edge(shared).Source
	assert.NotEqual(t, a1, src)
	assert.Equal(t, uint8(15), g.Node(src).State.OutputStrength)

	var constants int
	for _, id := range g.NodeIDs() {
		if g.Node(id).Kind.Type == graph.Constant {
			constants++
		}
	}
	assert.Equal(t, 3, constants)

	// Idempotent.
	before := g.String()
	constantCoalesce(g)
	assert.Equal(t, before, g.String())
}

func TestCoalesce(t *testing.T) {
	g := graph.New()
	in := lever(g)
	t1 := gate(g, graph.NewKind(graph.Torch))
	t2 := gate(g, graph.NewKind(graph.Torch))
	t3 := gate(g, graph.NewKind(graph.Torch))
	o1 := lamp(g)
	o2 := lamp(g)
	o3 := lamp(g)
	g.Node(t1).Blocks = []graph.BlockRef{{ID: 1}}
	g.Node(t2).Blocks = []graph.BlockRef{{ID: 2}}
	g.AddEdge(in, t1, link(graph.Default, 0))
	g.AddEdge(in, t2, link(graph.Default, 0))
	g.AddEdge(in, t3, link(graph.Default, 1))
	g.AddEdge(t1, o1, link(graph.Default, 0))
	g.AddEdge(t2, o2, link(graph.Default, 0))
	g.AddEdge(t3, o3, link(graph.Default, 0))

	assert.Equal(t, 1, coalesce(g))
	assert.True(t, g.Contains(t1))
	assert.False(t, g.Contains(t2))
	assert.True(t, g.Contains(t3))
	assert.ElementsMatch(t, []graph.NodeID{o1, o2}, g.Successors(t1))
	assert.Len(t, g.Node(t1).Blocks, 2)
	assert.Equal(t, 0, coalesce(g))
}

func TestCoalesceParallelLinks(t *testing.T) {
	g := graph.New()
	in := lever(g)
	t1 := gate(g, graph.NewKind(graph.Torch))
	t2 := gate(g, graph.NewKind(graph.Torch))
	cmp := gate(g, graph.NewComparator(graph.Compare, false))
	out := lamp(g)
	g.AddEdge(in, t1, link(graph.Default, 0))
	g.AddEdge(in, t2, link(graph.Default, 0))
	g.AddEdge(t1, cmp, link(graph.Default, 2))
	near := g.AddEdge(t2, cmp, link(graph.Default, 1))
	side := g.AddEdge(t2, cmp, link(graph.Side, 0))
	g.AddEdge(t1, out, link(graph.Default, 0))
	g.AddEdge(t2, out, link(graph.Default, 0))
	g.AddEdge(cmp, out, link(graph.Default, 0))

	assert.Equal(t, 1, coalesce(g))
	require.True(t, g.Contains(t1))
	assert.False(t, g.Contains(t2))

	assert.ElementsMatch(t, []graph.EdgeID{near, side}, g.Incoming(cmp))
	assert.Equal(t, t1, g.Edge(near).Source)
	assert.Equal(t, t1, g.Edge(side).Source)
	assert.Equal(t, 2, g.NumIncoming(out))
	assert.Equal(t, 3, g.NumOutgoing(t1))
	assert.Equal(t, 0, dedupLinks(g))
}

func TestCoalesceKeepsIO(t *testing.T) {
	g := graph.New()
	in := lever(g)
	o1 := lamp(g)
	o2 := lamp(g)
	g.AddEdge(in, o1, link(graph.Default, 0))
	g.AddEdge(in, o2, link(graph.Default, 0))

	assert.Equal(t, 0, coalesce(g))
	assert.True(t, g.Contains(o1))
	assert.True(t, g.Contains(o2))
}

func TestPruneOrphans(t *testing.T) {
	g := graph.New()
	in := lever(g)
	w := gate(g, graph.NewKind(graph.Wire))
	t1 := gate(g, graph.NewKind(graph.Torch))
	t2 := gate(g, graph.NewKind(graph.Torch))
	t3 := gate(g, graph.NewKind(graph.Torch))
	out := lamp(g)
	g.AddEdge(in, w, link(graph.Default, 0))
	g.AddEdge(t1, t2, link(graph.Default, 0))
	g.AddEdge(t2, t3, link(graph.Default, 0))
	g.AddEdge(in, out, link(graph.Default, 0))

	assert.Equal(t, 4, pruneOrphans(g))
	assert.Equal(t, 2, g.NumNodes())
	assert.True(t, g.Contains(in))
	assert.True(t, g.Contains(out))
	assert.Equal(t, 0, pruneOrphans(g))
}

func TestCoalesceConstantSource(t *testing.T) {
	g := graph.New()
	c := constant(g, 15)
	t1 := gate(g, graph.NewKind(graph.Torch))
	t2 := gate(g, graph.NewKind(graph.Torch))
	o1 := lamp(g)
	o2 := lamp(g)
	g.AddEdge(c, t1, link(graph.Default, 0))
	g.AddEdge(c, t2, link(graph.Default, 0))
	g.AddEdge(t1, o1, link(graph.Default, 0))
	g.AddEdge(t2, o2, link(graph.Default, 0))

	before := []uint8{
		settledOutput(t, g, c, o1, 15),
		settledOutput(t, g, c, o2, 15),
	}

	assert.Equal(t, 1, coalesce(g))
	assert.Equal(t, 5-1, g.NumNodes())
	assert.Equal(t, 2, g.NumOutgoing(t1))
	assert.Equal(t, before[0], settledOutput(t, g, c, o1, 15))
	assert.Equal(t, before[1], settledOutput(t, g, c, o2, 15))
}

func TestConstantCoalesceKeepsIO(t *testing.T) {
	g := graph.New()
	in := lever(g)
	cmp := gate(g, graph.NewComparator(graph.Compare, false))
	out := lamp(g)
	g.AddEdge(in, cmp, link(graph.Default, 0))
	g.AddEdge(cmp, out, link(graph.Default, 0))

	c1 := constant(g, 7)
	c2 := g.AddNode(graph.Node{
		Kind:    graph.NewKind(graph.Constant),
		State:   graph.StrengthState(7),
		IsInput: true,
	})
	e1 := g.AddEdge(c1, cmp, link(graph.Side, 0))
	e2 := g.AddEdge(c2, out, link(graph.Default, 3))

	assert.Equal(t, 0, constantCoalesce(g))
	assert.True(t, g.Contains(c1))
	assert.True(t, g.Contains(c2))
	assert.Equal(t, c1, g.Edge(e1).Source)
	assert.Equal(t, c2, g.Edge(e2).Source)
}
