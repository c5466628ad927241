// Package model defines the causal graph data entities and the read-only
// queries over them.
//
// Everything in this package is a plain value object: nodes, edges, graphs,
// interventions. The simulation engine and the validator treat these as
// immutable snapshots: no function in this package or its consumers mutates
// a graph in place. Stores hand out deep copies (see CausalGraph.Clone) so a
// running simulation can never observe concurrent modification.
//
// Node values are a tagged union (Value): either a Number (float64) or a
// Label (string). Propagation arithmetic is defined only over Numbers; Labels
// are an explicit pass-through case. There is deliberately no coercion
// between the two variants.
package model
