// Package engine implements the what-if propagation engine.
//
// Given an immutable graph snapshot and a set of forced-value interventions,
// Simulate computes the resulting value of every node. Each node's value is
// decomposed as base + delta, where delta is the deviation caused directly
// or transitively by interventions:
//
//	delta(n) = sum over incoming edges e of weight(e) * delta(source(e))
//
// An intervened node's delta is pinned at forced - base for the whole run.
// This is a linear fixed-point system that may be cyclic (the validator
// reports cycles but does not forbid them), so the engine solves it by
// relaxation: start from the forcing vector, recompute every non-intervened
// numeric node's delta from current parent deltas, and stop at convergence
// or at a hard iteration cap. The cap is the termination guarantee for
// divergent cycles - the engine returns whatever state it reached rather
// than hang.
//
// DETERMINISM:
// Nodes are visited in graph order every iteration and results come back in
// graph order. Repeated runs on identical inputs are bit-identical.
//
// DIVERGENCE:
// Weights are unconstrained and cycles are permitted, so deltas can grow
// without bound. Any non-finite delta (overflow to Inf, or NaN) freezes the
// node at its last finite delta, records it in Report.Diverged, and removes
// it from further recomputation so the poison cannot spread. No NaN ever
// reaches the result set.
//
// The engine is a pure, stateless computation: no I/O, no cross-call state,
// safe to invoke concurrently for independent requests.
package engine
