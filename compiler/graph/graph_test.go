//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package graph

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddRemove(t *testing.T) {
	g := New()
	a := g.AddNode(Node{Kind: NewKind(Lever), IsInput: true})
	b := g.AddNode(Node{Kind: NewKind(Torch)})
	c := g.AddNode(Node{Kind: NewKind(Lamp), IsOutput: true})

	e1 := g.AddEdge(a, b, Link{})
	g.AddEdge(b, c, Link{SignalStrength: 2})
	g.AddEdge(b, c, Link{Type: Side, SignalStrength: 3})

	if g.NumNodes() != 3 || g.NumEdges() != 3 {
		t.Fatalf("unexpected graph size: %v", g)
	}
	if g.NumIncoming(c) != 2 || g.NumOutgoing(b) != 2 {
		t.Errorf("parallel edges lost: in=%d out=%d",
			g.NumIncoming(c), g.NumOutgoing(b))
	}
	if succ := g.Successors(b); len(succ) != 1 || succ[0] != c {
		t.Errorf("Successors(b)=%v", succ)
	}

	g.RemoveNode(b)
	if g.Contains(b) || g.Node(b) != nil {
		t.Errorf("removed node still present")
	}
	if g.NumEdges() != 0 {
		t.Errorf("edges of removed node still present: %d", g.NumEdges())
	}
	if g.Edge(e1) != nil {
		t.Errorf("edge %d still present", e1)
	}
	if !g.Contains(a) || !g.Contains(c) {
		t.Fatalf("surviving node IDs invalidated")
	}
	if g.Node(c).Kind.Type != Lamp {
		t.Errorf("node c changed: %v", g.Node(c))
	}

	d := g.AddNode(Node{Kind: NewKind(Constant)})
	if d == b {
		t.Errorf("node ID reused")
	}
	ids := g.NodeIDs()
	if len(ids) != 3 || ids[0] != a || ids[1] != c || ids[2] != d {
		t.Errorf("NodeIDs=%v", ids)
	}
}

func TestSetSource(t *testing.T) {
	g := New()
	a := g.AddNode(Node{Kind: NewKind(Constant)})
	b := g.AddNode(Node{Kind: NewKind(Constant)})
	c := g.AddNode(Node{Kind: NewKind(Lamp)})
	e := g.AddEdge(a, c, Link{SignalStrength: 4})

	g.SetSource(e, b)
	if g.NumOutgoing(a) != 0 || g.NumOutgoing(b) != 1 {
		t.Fatalf("SetSource did not move edge")
	}
	if g.Edge(e).Source != b || g.Edge(e).Link.SignalStrength != 4 {
		t.Errorf("edge changed: %v", g.Edge(e))
	}
	if g.NumIncoming(c) != 1 {
		t.Errorf("target inputs changed")
	}
}

func TestClone(t *testing.T) {
	g := New()
	a := g.AddNode(Node{
		Kind:   NewKind(Lever),
		Blocks: []BlockRef{{ID: 7}},
	})
	b := g.AddNode(Node{Kind: NewKind(Lamp)})
	g.AddEdge(a, b, Link{})

	c := g.Clone()
	c.Node(a).Blocks[0].ID = 8
	c.RemoveNode(b)

	if g.Node(a).Blocks[0].ID != 7 {
		t.Errorf("clone shares blocks")
	}
	if !g.Contains(b) || g.NumEdges() != 1 {
		t.Errorf("clone shares structure")
	}
}

func TestInputPower(t *testing.T) {
	g := New()
	c10 := g.AddNode(Node{Kind: NewKind(Constant), State: StrengthState(10)})
	c3 := g.AddNode(Node{Kind: NewKind(Constant), State: StrengthState(3)})
	n := g.AddNode(Node{Kind: NewComparator(Compare, false)})
	g.AddEdge(c10, n, Link{SignalStrength: 2})
	g.AddEdge(c3, n, Link{SignalStrength: 0})
	g.AddEdge(c3, n, Link{Type: Side, SignalStrength: 5})

	def, side := g.InputPower(n)
	if def != 8 || side != 0 {
		t.Errorf("InputPower=%d,%d, expected 8,0", def, side)
	}
}

func TestDot(t *testing.T) {
	g := New()
	a := g.AddNode(Node{Kind: NewKind(Lever), IsInput: true})
	b := g.AddNode(Node{Kind: NewRepeater(2, false)})
	g.AddEdge(a, b, Link{Type: Side, SignalStrength: 1})

	var buf bytes.Buffer
	g.Dot(&buf)
	out := buf.String()
	if !strings.HasPrefix(out, "digraph redstone") {
		t.Errorf("unexpected dot header: %s", out)
	}
	if !strings.Contains(out, "n0 -> n1") ||
		!strings.Contains(out, "style=dashed") {
		t.Errorf("missing side edge: %s", out)
	}
}
