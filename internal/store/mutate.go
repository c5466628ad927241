package store

import "github.com/causalsim/causalsim/internal/model"

// Graph mutation helpers shared by every backend. Each operates on a graph
// value the backend has already snapshotted; the backend persists the result.
// All return sentinel errors, never backend-specific ones.

// AddNodeTo appends a node, rejecting duplicate ids.
func AddNodeTo(g *model.CausalGraph, n model.Node) error {
	if g.NodeByID(n.ID) != nil {
		return ErrDuplicateNode
	}
	g.Nodes = append(g.Nodes, n)
	return nil
}

// UpdateNodeIn applies a partial update to the node with the given id.
func UpdateNodeIn(g *model.CausalGraph, nodeID string, upd NodeUpdate) error {
	n := g.NodeByID(nodeID)
	if n == nil {
		return ErrNodeNotFound
	}
	if upd.Name != nil {
		n.Name = *upd.Name
	}
	if upd.Type != nil {
		n.Type = *upd.Type
	}
	if upd.BaseValue != nil {
		n.BaseValue = upd.BaseValue
	}
	if upd.PossibleValues != nil {
		n.PossibleValues = append([]string(nil), upd.PossibleValues...)
	}
	return nil
}

// DeleteNodeFrom removes the node and every edge touching it.
func DeleteNodeFrom(g *model.CausalGraph, nodeID string) error {
	idx := -1
	for i := range g.Nodes {
		if g.Nodes[i].ID == nodeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNodeNotFound
	}
	g.Nodes = append(g.Nodes[:idx], g.Nodes[idx+1:]...)

	kept := g.Edges[:0]
	for _, e := range g.Edges {
		if e.SourceID != nodeID && e.TargetID != nodeID {
			kept = append(kept, e)
		}
	}
	g.Edges = kept
	return nil
}

// AddEdgeTo appends an edge after checking both endpoints resolve and the
// (source, target) pair is not already present.
func AddEdgeTo(g *model.CausalGraph, e model.Edge) error {
	if g.NodeByID(e.SourceID) == nil || g.NodeByID(e.TargetID) == nil {
		return ErrUnknownEndpoint
	}
	for _, existing := range g.Edges {
		if existing.SourceID == e.SourceID && existing.TargetID == e.TargetID {
			return ErrDuplicateEdge
		}
	}
	g.Edges = append(g.Edges, e)
	return nil
}

// UpdateEdgeIn applies a partial update to the edge at the given position.
// Changed endpoints must still resolve to nodes in the graph.
func UpdateEdgeIn(g *model.CausalGraph, index int, upd EdgeUpdate) error {
	if index < 0 || index >= len(g.Edges) {
		return ErrEdgeNotFound
	}
	e := g.Edges[index]
	if upd.SourceID != nil {
		e.SourceID = *upd.SourceID
	}
	if upd.TargetID != nil {
		e.TargetID = *upd.TargetID
	}
	if upd.Weight != nil {
		e.Weight = *upd.Weight
	}
	if g.NodeByID(e.SourceID) == nil || g.NodeByID(e.TargetID) == nil {
		return ErrUnknownEndpoint
	}
	g.Edges[index] = e
	return nil
}

// DeleteEdgeFrom removes the edge at the given position.
func DeleteEdgeFrom(g *model.CausalGraph, index int) error {
	if index < 0 || index >= len(g.Edges) {
		return ErrEdgeNotFound
	}
	g.Edges = append(g.Edges[:index], g.Edges[index+1:]...)
	return nil
}
