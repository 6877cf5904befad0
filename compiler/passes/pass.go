//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
	"github.com/markkurossi/redpiler/world"
)

// Input specifies the compiler input region.
type Input struct {
	World  world.World
	Bounds world.Bounds
}

// Pass implements a named graph rewrite operation.
type Pass interface {
	// Name returns the pass name. The name is used in diagnostics
	// and for disabling passes.
	Name() string
	// StatusMessage returns a human readable progress message.
	StatusMessage() string
	// ShouldRun tests if the pass is enabled for the parameters.
	ShouldRun(params *utils.Params) bool
	// Run runs the pass over the graph. Optimization passes never
	// fail: a pass that can't apply leaves the graph unchanged.
	Run(g *graph.Graph, params *utils.Params, input *Input) error
}

// optimization implements the default ShouldRun for optimization
// passes.
type optimization struct{}

// ShouldRun implements Pass.ShouldRun.
func (optimization) ShouldRun(params *utils.Params) bool {
	return params.Optimize
}

// always implements ShouldRun for passes that run in all
// configurations.
type always struct{}

// ShouldRun implements Pass.ShouldRun.
func (always) ShouldRun(params *utils.Params) bool {
	return true
}

// DefaultPasses returns the compiler passes in their execution
// order. Each pass may assume the invariants established by its
// predecessors.
func DefaultPasses() []Pass {
	return []Pass{
		new(IdentifyNodes),
		new(InputSearch),
		new(ClampWeights),
		new(DedupLinks),
		new(AnalogRepeaters),
		new(ConstantFold),
		new(UnreachableOutput),
		new(ConstantCoalesce),
		new(Coalesce),
		new(PruneOrphans),
		new(ExportGraph),
	}
}
