package engine

import "github.com/causalsim/causalsim/internal/model"

// parentEdge is one incoming weighted contribution to a node.
type parentEdge struct {
	sourceID string
	weight   float64
}

// parentIndex maps each node id to its incoming (parent, weight) pairs.
//
// Built exactly once per Simulate call and reused across every relaxation
// iteration. Rebuilding it per iteration would turn the O(E)-once cost into
// O(E) per iteration. Construction is O(V+E); lookups are O(in-degree).
type parentIndex map[string][]parentEdge

// buildParentIndex constructs the sparse incoming-edge index for a graph.
// Edges with dangling endpoints are skipped: the validator reports them,
// and they must not contribute phantom deltas.
func buildParentIndex(g *model.CausalGraph) parentIndex {
	nodeIDs := g.NodeIDSet()
	idx := make(parentIndex, len(g.Nodes))
	for _, e := range g.Edges {
		if !nodeIDs[e.SourceID] || !nodeIDs[e.TargetID] {
			continue
		}
		idx[e.TargetID] = append(idx[e.TargetID], parentEdge{
			sourceID: e.SourceID,
			weight:   e.Weight,
		})
	}
	return idx
}
