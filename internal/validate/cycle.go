package validate

import (
	"fmt"
	"strings"

	"github.com/causalsim/causalsim/internal/model"
)

// CycleWarning describes one directed cycle found in a graph.
//
// Cycles are warnings rather than errors by default, because they may be
// intentional: feedback loops are a legitimate causal structure and the
// engine resolves them by relaxation with a hard iteration cap.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
}

// Three-color DFS marking.
type color uint8

const (
	white color = iota // unvisited
	gray               // in progress - a back edge here is a cycle
	black              // done
)

// DetectCycles finds directed cycles via depth-first traversal with
// three-color marking. A back edge to a node on the current DFS path
// signals a cycle; the path reconstructs it.
//
// Traversal starts from nodes in graph order, so the reported cycles are
// deterministic for a given input. Each DFS root stops at its first cycle;
// other components are still scanned. An acyclic graph returns nil.
func DetectCycles(g *model.CausalGraph) []CycleWarning {
	// Children adjacency, skipping edges with dangling endpoints - those
	// are reported separately and must not panic the traversal.
	nodeIDs := g.NodeIDSet()
	children := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		if nodeIDs[e.SourceID] && nodeIDs[e.TargetID] {
			children[e.SourceID] = append(children[e.SourceID], e.TargetID)
		}
	}

	colors := make(map[string]color, len(g.Nodes))
	var warnings []CycleWarning
	var path []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		colors[id] = gray
		path = append(path, id)

		for _, next := range children[id] {
			switch colors[next] {
			case gray:
				// A gray node is a back edge only when it sits on the
				// current path. An earlier root's traversal stops as soon
				// as it reports a cycle, leaving its members gray; an edge
				// into that residue reaches an already-reported cycle and
				// is not one itself.
				start := -1
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				if start < 0 {
					continue
				}
				cycle := append(append([]string(nil), path[start:]...), next)
				warnings = append(warnings, CycleWarning{
					Path:    cycle,
					Message: fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")),
				})
				return true
			case white:
				if dfs(next) {
					return true
				}
			}
		}

		path = path[:len(path)-1]
		colors[id] = black
		return false
	}

	for i := range g.Nodes {
		if colors[g.Nodes[i].ID] == white {
			path = path[:0]
			dfs(g.Nodes[i].ID)
		}
	}

	return warnings
}
