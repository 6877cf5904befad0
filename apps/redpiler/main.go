//
// main.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/markkurossi/redpiler/compiler"
	"github.com/markkurossi/redpiler/compiler/passes"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/markkurossi/redpiler/netlist"
)

func main() {
	optimize := flag.Bool("O", true, "Optimize the compile graph")
	export := flag.Bool("e", false, "Export the compile graph")
	exportPath := flag.String("o", "", "Export file (default <input>.bin)")
	dot := flag.Bool("dot", false, "Create graphviz dot output")
	dump := flag.Bool("dump", false, "Print the compiled netlist")
	settle := flag.Int("settle", 0,
		"Settle the netlist for max `rounds` and print outputs")
	disable := flag.String("disable", "",
		"Comma-separated list of passes to disable")
	fDiagnostics := flag.Bool("d", false, "Diagnostics output")
	fVerbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	log.SetFlags(0)

	params := utils.NewParams()
	defer params.Close()

	params.Optimize = *optimize
	params.Export = *export
	params.Verbose = *fVerbose
	params.Diagnostics = *fDiagnostics
	params.Logger = utils.NewLogger(os.Stderr, *fVerbose)

	for _, name := range strings.Split(*disable, ",") {
		name = strings.TrimSpace(name)
		if len(name) > 0 {
			params.Disabled[name] = true
		}
	}

	if len(flag.Args()) == 0 {
		fmt.Printf("no input files\n")
		os.Exit(1)
	}
	if len(*exportPath) > 0 && len(flag.Args()) > 1 {
		log.Fatalf("-o requires a single input file")
	}

	for _, file := range flag.Args() {
		err := compileFile(file, params, *exportPath, *dot, *dump, *settle)
		if err != nil {
			log.Fatal(err)
		}
	}
}

func compileFile(file string, params *utils.Params, exportPath string,
	dot, dump bool, settle int) error {

	var err error

	if !compiler.IsFilename(file) {
		return fmt.Errorf("unknown file type '%s'", file)
	}
	defer params.Close()

	if params.Export {
		if len(exportPath) > 0 {
			params.ExportOut, err = createOutput(exportPath)
		} else {
			params.ExportOut, err = makeOutput(file, "bin")
		}
		if err != nil {
			return err
		}
	}
	if dot {
		params.DotOut, err = makeOutput(file, "dot")
		if err != nil {
			return err
		}
	}

	c := compiler.New(params)

	// Cancel the compilation on interrupt. The partially optimized
	// graph is still valid.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigs:
			c.Monitor().Cancel()
		case <-done:
		}
		signal.Stop(sigs)
	}()

	g, _, err := c.CompileFile(file)
	if errors.Is(err, passes.ErrCancelled) {
		finished, total := c.Monitor().Progress()
		utils.Warningf(params.Log(), "%s: cancelled after %d/%d passes",
			file, finished, total)
	} else if err != nil {
		return err
	}
	fmt.Printf("%s: %v\n", file, g)

	if !dump && settle <= 0 {
		return nil
	}
	n, err := netlist.Flatten(g)
	if err != nil {
		return err
	}
	if settle > 0 {
		if !n.Settle(settle) {
			utils.Warningf(params.Log(), "%s: no steady state in %d rounds",
				file, settle)
		}
		for _, node := range n.Nodes {
			if !node.IsOutput {
				continue
			}
			for _, b := range node.Blocks {
				fmt.Printf("%v\t%s\t%d\n",
					b.Pos, node.Kind, node.State.OutputStrength)
			}
		}
	}
	if dump {
		n.Dump(os.Stdout)
	}
	return nil
}
