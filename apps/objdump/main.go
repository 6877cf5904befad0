//
// main.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"flag"
	"log"
	"os"
)

type options struct {
	blocks  bool
	summary bool
	settle  int
}

func main() {
	var opts options
	flag.BoolVar(&opts.blocks, "b", false, "Print the blocks of each node")
	flag.BoolVar(&opts.summary, "s", false,
		"Print only the netlist summary")
	flag.IntVar(&opts.settle, "settle", 0,
		"Settle the netlist for max `rounds` before dumping")
	flag.Parse()

	log.SetFlags(0)

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("no artifact files specified")
	}
	for _, file := range files {
		if err := dumpObject(os.Stdout, file, opts); err != nil {
			log.Fatalf("%s: %s", file, err)
		}
	}
}
