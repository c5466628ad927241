package validate

import (
	"fmt"

	"github.com/causalsim/causalsim/internal/model"
)

// Validation error codes (G100-G199)
const (
	ErrDuplicateNodeID = "G101" // node id appears more than once
	ErrDanglingSource  = "G102" // edge source references a missing node
	ErrDanglingTarget  = "G103" // edge target references a missing node
	ErrSelfLoop        = "G104" // edge from a node to itself
	ErrCyclePresent    = "G110" // directed cycle (blocking only when opted in)
)

// Error represents a single structural validation finding.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Options configures validation policy.
type Options struct {
	// CyclesBlock treats cycle presence as a blocking structural error.
	// Off by default: the engine simulates cyclic graphs, so "has a cycle"
	// and "is invalid" are separate questions.
	CyclesBlock bool
}

// Report is the outcome of validating one graph.
type Report struct {
	Valid    bool           `json:"is_valid"`
	Errors   []Error        `json:"errors"`
	HasCycle bool           `json:"has_cycle"`
	Cycles   []CycleWarning `json:"cycles,omitempty"`
}

// Messages returns the error messages as plain strings, one per finding.
func (r Report) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// Validate runs every structural check over the graph and returns all
// findings (does not fail-fast). The graph is never mutated. O(V+E).
func Validate(g *model.CausalGraph, opts Options) Report {
	var errs []Error

	// G101: duplicate node ids
	seen := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if seen[id] {
			errs = append(errs, Error{
				Field:   fmt.Sprintf("nodes[%d].id", i),
				Message: fmt.Sprintf("duplicate node id %q", id),
				Code:    ErrDuplicateNodeID,
			})
		}
		seen[id] = true
	}

	// G102/G103: edge endpoints must resolve. The messages carry the
	// offending id - callers diagnose from the string alone.
	nodeIDs := g.NodeIDSet()
	for i, e := range g.Edges {
		if !nodeIDs[e.SourceID] {
			errs = append(errs, Error{
				Field:   fmt.Sprintf("edges[%d].source_id", i),
				Message: fmt.Sprintf("edge source %q not found in nodes", e.SourceID),
				Code:    ErrDanglingSource,
			})
		}
		if !nodeIDs[e.TargetID] {
			errs = append(errs, Error{
				Field:   fmt.Sprintf("edges[%d].target_id", i),
				Message: fmt.Sprintf("edge target %q not found in nodes", e.TargetID),
				Code:    ErrDanglingTarget,
			})
		}
	}

	// G104: self-loops are a structural error, never silently dropped.
	for i, e := range g.Edges {
		if e.SourceID == e.TargetID {
			errs = append(errs, Error{
				Field:   fmt.Sprintf("edges[%d]", i),
				Message: fmt.Sprintf("self-loop detected on node %q", e.SourceID),
				Code:    ErrSelfLoop,
			})
		}
	}

	// G110: cycle presence is reported as a fact either way; it only joins
	// the error list when the caller opted into blocking.
	cycles := DetectCycles(g)
	if opts.CyclesBlock {
		for _, c := range cycles {
			errs = append(errs, Error{
				Field:   "edges",
				Message: c.Message,
				Code:    ErrCyclePresent,
			})
		}
	}

	return Report{
		Valid:    len(errs) == 0,
		Errors:   errs,
		HasCycle: len(cycles) > 0,
		Cycles:   cycles,
	}
}
