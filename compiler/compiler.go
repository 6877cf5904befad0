//
// compiler.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package compiler compiles redstone circuits into optimized logic
// graphs.
package compiler

import (
	"fmt"
	"strings"

	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/passes"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/markkurossi/redpiler/world"
)

// Compiler implements the redstone circuit compiler.
type Compiler struct {
	params  *utils.Params
	monitor *passes.Monitor
	timing  *passes.Timing
}

// New creates a new compiler instance.
func New(params *utils.Params) *Compiler {
	return &Compiler{
		params:  params,
		monitor: passes.NewMonitor(),
	}
}

// Monitor returns the compiler's progress monitor. The monitor can
// be used to follow and cancel a compilation from another goroutine.
func (c *Compiler) Monitor() *passes.Monitor {
	return c.monitor
}

// Timing returns the pass timing samples of the last compilation.
func (c *Compiler) Timing() *passes.Timing {
	return c.timing
}

// Compile compiles the world region into a logic graph. If the
// compilation is cancelled, Compile returns the partially optimized
// graph and passes.ErrCancelled.
func (c *Compiler) Compile(w world.World, bounds world.Bounds) (
	*graph.Graph, error) {

	log := c.params.Log()
	log.WithField("bounds", bounds).Debug("compiling")

	m := passes.NewManager(c.monitor, passes.DefaultPasses()...)
	g, err := m.Run(c.params, &passes.Input{
		World:  w,
		Bounds: bounds,
	})
	c.timing = m.Timing()
	if err != nil {
		return g, err
	}
	if c.params.DotOut != nil {
		g.Dot(c.params.DotOut)
	}
	log.WithField("graph", g).Info("compiled")
	return g, nil
}

// CompileFile compiles the world file. The compiled region covers
// all blocks of the world.
func (c *Compiler) CompileFile(file string) (*graph.Graph, *world.MemWorld,
	error) {

	w, err := world.ParseFile(file)
	if err != nil {
		return nil, nil, err
	}
	bounds, ok := w.Extent()
	if !ok {
		return nil, nil, fmt.Errorf("%s: empty world", file)
	}
	g, err := c.Compile(w, bounds)
	return g, w, err
}

// CompileString compiles the world definition data.
func (c *Compiler) CompileString(data string) (*graph.Graph, error) {
	w, err := world.Parse("{data}", strings.NewReader(data))
	if err != nil {
		return nil, err
	}
	bounds, ok := w.Extent()
	if !ok {
		return nil, fmt.Errorf("empty world")
	}
	return c.Compile(w, bounds)
}

// IsFilename tests if the argument file is a world file.
func IsFilename(file string) bool {
	return world.IsFilename(file)
}
