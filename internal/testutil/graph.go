// Package testutil provides graph builders shared by tests.
package testutil

import "github.com/causalsim/causalsim/internal/model"

// NumNode builds a continuous node with the given base value.
func NumNode(id string, base float64) model.Node {
	return model.Node{
		ID:        id,
		Name:      id,
		Type:      model.Continuous,
		BaseValue: model.NewNumber(base),
	}
}

// CatNode builds a categorical node with the given base label.
func CatNode(id, base string, possible ...string) model.Node {
	return model.Node{
		ID:             id,
		Name:           id,
		Type:           model.Categorical,
		BaseValue:      model.NewLabel(base),
		PossibleValues: possible,
	}
}

// E builds a weighted edge.
func E(source, target string, weight float64) model.Edge {
	return model.Edge{SourceID: source, TargetID: target, Weight: weight}
}

// Graph assembles a graph from nodes and edges.
func Graph(id string, nodes []model.Node, edges []model.Edge) *model.CausalGraph {
	return &model.CausalGraph{ID: id, Name: id, Nodes: nodes, Edges: edges}
}

// MockGraph is the canonical four-node test graph: edges 1→2, 1→3, 2→4.
// Structurally clean and acyclic; adding 4→1 closes a cycle.
func MockGraph() *model.CausalGraph {
	return Graph("mock",
		[]model.Node{
			NumNode("1", 10),
			NumNode("2", 20),
			NumNode("3", 30),
			NumNode("4", 40),
		},
		[]model.Edge{
			E("1", "2", 0.5),
			E("1", "3", 2),
			E("2", "4", 1),
		},
	)
}

// Chain is a two-node graph a→b with the given weight.
func Chain(weight float64) *model.CausalGraph {
	return Graph("chain",
		[]model.Node{NumNode("a", 1), NumNode("b", 2)},
		[]model.Edge{E("a", "b", weight)},
	)
}

// Cycle is a two-node cycle a→b→a with the given weights.
func Cycle(ab, ba float64) *model.CausalGraph {
	return Graph("cycle",
		[]model.Node{NumNode("a", 1), NumNode("b", 2)},
		[]model.Edge{E("a", "b", ab), E("b", "a", ba)},
	)
}
