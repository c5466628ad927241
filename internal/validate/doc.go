// Package validate performs structural checks over a causal graph.
//
// Validate collects every problem it finds (duplicate node ids, edges whose
// endpoints do not resolve, self-loops) without short-circuiting, and
// separately reports whether the graph contains a directed cycle.
//
// Structural validity and cycle presence are independent facts. The
// propagation engine simulates cyclic graphs, so a cycle is a warning by
// default; callers that want cycles to block simulation opt in via
// Options.CyclesBlock.
package validate
