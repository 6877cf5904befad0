//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package graph

import (
	"fmt"
	"io"
)

// Dot creates graphviz dot output of the graph.
func (g *Graph) Dot(out io.Writer) {
	fmt.Fprintf(out, "digraph redstone\n{\n")
	fmt.Fprintf(out, "  overlap=scale;\n")
	fmt.Fprintf(out, "  node\t[fontname=\"Helvetica\"];\n")

	fmt.Fprintf(out, "  {\n    node [shape=box];\n")
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		var attrs string
		if n.IsInput {
			attrs = ",style=bold"
		} else if n.IsOutput {
			attrs = ",style=filled"
		}
		fmt.Fprintf(out, "    %v\t[label=\"%s\\n%d\"%s];\n",
			id, n.Kind, n.State.OutputStrength, attrs)
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {  rank=source")
	for _, id := range g.NodeIDs() {
		if g.Node(id).IsInput {
			fmt.Fprintf(out, "; %v", id)
		}
	}
	fmt.Fprintf(out, ";}\n")

	fmt.Fprintf(out, "  {  rank=sink")
	for _, id := range g.NodeIDs() {
		if g.Node(id).IsOutput {
			fmt.Fprintf(out, "; %v", id)
		}
	}
	fmt.Fprintf(out, ";}\n")

	for _, eid := range g.EdgeIDs() {
		e := g.Edge(eid)
		style := "solid"
		if e.Link.Type == Side {
			style = "dashed"
		}
		fmt.Fprintf(out, "  %v -> %v\t[label=\"%d\",style=%s];\n",
			e.Source, e.Target, e.Link.SignalStrength, style)
	}
	fmt.Fprintf(out, "}\n")
}
