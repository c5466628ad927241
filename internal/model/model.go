package model

import (
	"encoding/json"
	"fmt"
)

// NodeType classifies how a node's value behaves under propagation.
type NodeType string

const (
	// Continuous nodes hold a real number and participate fully in
	// weighted-sum propagation.
	Continuous NodeType = "continuous"

	// Categorical nodes hold a label from PossibleValues and never
	// participate in propagation arithmetic.
	Categorical NodeType = "categorical"

	// Binary nodes hold either 0/1 as a number or a two-state label.
	// The numeric form propagates; the label form does not.
	Binary NodeType = "binary"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case Continuous, Categorical, Binary:
		return true
	}
	return false
}

// Node is a vertex in a causal graph.
type Node struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           NodeType `json:"node_type"`
	BaseValue      Value    `json:"base_value"`
	PossibleValues []string `json:"possible_values,omitempty"` // categorical only
}

// nodeJSON mirrors Node with a raw base value for two-phase decoding.
type nodeJSON struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           NodeType        `json:"node_type"`
	BaseValue      json.RawMessage `json:"base_value"`
	PossibleValues []string        `json:"possible_values,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler for Node.
// BaseValue is an interface field, so the scalar has to be dispatched by
// hand to the Number or Label variant.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	val, err := UnmarshalValue(raw.BaseValue)
	if err != nil {
		return fmt.Errorf("node %q: base_value: %w", raw.ID, err)
	}

	n.ID = raw.ID
	n.Name = raw.Name
	n.Type = raw.Type
	n.BaseValue = val
	n.PossibleValues = raw.PossibleValues
	return nil
}

// Edge is a directed weighted connection between two nodes.
type Edge struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Weight   float64 `json:"weight"`
}

// CausalGraph is an ordered set of nodes plus the weighted edges between
// them. Node order is meaningful: the engine iterates and reports results in
// this order, which is what makes repeated runs bit-identical.
type CausalGraph struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID returns the node with the given id, or nil if absent.
// Linear scan: graphs are snapshots, callers needing repeated lookup build
// an index once (see NodeIDSet).
func (g *CausalGraph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodeIDSet returns the set of node ids in the graph.
func (g *CausalGraph) NodeIDSet() map[string]bool {
	ids := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		ids[g.Nodes[i].ID] = true
	}
	return ids
}

// Clone returns a deep copy of the graph.
// Stores hand out clones so that a caller holding a snapshot can never be
// affected by later CRUD on the stored graph, and vice versa.
func (g *CausalGraph) Clone() *CausalGraph {
	if g == nil {
		return nil
	}
	out := &CausalGraph{
		ID:    g.ID,
		Name:  g.Name,
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	for i := range out.Nodes {
		if pv := out.Nodes[i].PossibleValues; pv != nil {
			out.Nodes[i].PossibleValues = append([]string(nil), pv...)
		}
	}
	return out
}

// Intervention forces a node to a value for one simulation run.
type Intervention struct {
	NodeID      string `json:"node_id"`
	ForcedValue Value  `json:"forced_value"`
}

// UnmarshalJSON implements json.Unmarshaler for Intervention.
func (iv *Intervention) UnmarshalJSON(data []byte) error {
	var raw struct {
		NodeID      string          `json:"node_id"`
		ForcedValue json.RawMessage `json:"forced_value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	val, err := UnmarshalValue(raw.ForcedValue)
	if err != nil {
		return fmt.Errorf("intervention on %q: forced_value: %w", raw.NodeID, err)
	}

	iv.NodeID = raw.NodeID
	iv.ForcedValue = val
	return nil
}
