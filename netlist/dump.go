//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package netlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/markkurossi/tabulate"
)

// Dump prints the netlist nodes as a table.
func (n *Netlist) Dump(out io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("ID").SetAlign(tabulate.MR)
	tab.Header("Kind").SetAlign(tabulate.ML)
	tab.Header("I/O").SetAlign(tabulate.ML)
	tab.Header("SS").SetAlign(tabulate.MR)
	tab.Header("Blocks").SetAlign(tabulate.ML)
	tab.Header("Inputs").SetAlign(tabulate.ML)
	tab.Header("Links").SetAlign(tabulate.ML)

	for idx, node := range n.Nodes {
		row := tab.Row()
		row.Column(fmt.Sprintf("%d", idx))
		row.Column(node.Kind.String())

		var dir string
		if node.IsInput {
			dir += "I"
		}
		if node.IsOutput {
			dir += "O"
		}
		row.Column(dir)
		row.Column(fmt.Sprintf("%d", node.State.OutputStrength))

		var blocks []string
		for _, b := range node.Blocks {
			blocks = append(blocks, b.Pos.String())
		}
		row.Column(strings.Join(blocks, " "))

		var inputs []string
		for _, in := range node.Inputs {
			inputs = append(inputs, in.String())
		}
		row.Column(strings.Join(inputs, " "))

		var links []string
		for _, l := range node.Links {
			links = append(links, l.String())
		}
		row.Column(strings.Join(links, " "))
	}
	tab.Print(out)
}
