//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package passes

import (
	"github.com/markkurossi/redpiler/compiler/graph"
	"github.com/markkurossi/redpiler/compiler/utils"
)

// PruneOrphans removes removable nodes without outputs until no
// such nodes remain.
type PruneOrphans struct {
	optimization
}

// Name implements Pass.Name.
func (p *PruneOrphans) Name() string {
	return "PruneOrphans"
}

// StatusMessage implements Pass.StatusMessage.
func (p *PruneOrphans) StatusMessage() string {
	return "Pruning orphans"
}

// Run implements Pass.Run.
func (p *PruneOrphans) Run(g *graph.Graph, params *utils.Params,
	input *Input) error {

	n := pruneOrphans(g)
	params.Log().WithField("pruned", n).Debug("prune orphans done")
	return nil
}

func pruneOrphans(g *graph.Graph) int {
	var total int
	for {
		var count int

		ids := g.NodeIDs()
		for i := len(ids) - 1; i >= 0; i-- {
			id := ids[i]
			if g.Node(id).Removable() && g.NumOutgoing(id) == 0 {
				g.RemoveNode(id)
				count++
			}
		}
		if count == 0 {
			return total
		}
		total += count
	}
}
