//
// dump.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/markkurossi/redpiler/netlist"
	"github.com/markkurossi/redpiler/world"
)

func dumpObject(out io.Writer, file string, opts options) error {
	n, err := readObject(file)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %v\n", file, n)
	if opts.summary {
		return nil
	}
	if opts.settle > 0 && !n.Settle(opts.settle) {
		fmt.Fprintf(out, "%s: no steady state in %d rounds\n",
			file, opts.settle)
	}
	n.Dump(out)

	if !opts.blocks {
		return nil
	}
	for idx, node := range n.Nodes {
		for _, ref := range node.Blocks {
			b, err := world.BlockFromID(ref.ID)
			if err != nil {
				return fmt.Errorf("node %d: %w", idx, err)
			}
			fmt.Fprintf(out, "%d\t%v\t%v\n", idx, ref.Pos, b)
		}
	}
	return nil
}

func readObject(file string) (*netlist.Netlist, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return netlist.Unmarshal(f)
}
