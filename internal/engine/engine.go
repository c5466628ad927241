package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/causalsim/causalsim/internal/model"
)

// Defaults for relaxation control.
const (
	DefaultMaxIterations = 1000
	DefaultEpsilon       = 1e-6
)

// Options controls the relaxation loop.
type Options struct {
	// MaxIterations is the hard cap on relaxation passes. The engine
	// returns whatever state it reached at the cap - this is the
	// termination guarantee for divergent cyclic systems.
	MaxIterations int

	// Epsilon is the convergence threshold: the run stops once no node's
	// delta moved by more than Epsilon in a full pass.
	Epsilon float64
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	return o
}

// Result is the per-node outcome of one simulation run.
type Result struct {
	NodeID         string      `json:"node_id"`
	OriginalValue  model.Value `json:"original_value"`
	SimulatedValue model.Value `json:"simulated_value"`
}

// Report is the full outcome of one simulation run: one Result per graph
// node (in graph order), plus convergence diagnostics.
//
// ElapsedMS is the wall-clock duration in milliseconds, the unit the HTTP
// response envelope uses; Elapsed carries the same measurement at full
// resolution for in-process callers.
type Report struct {
	Results    []Result      `json:"results"`
	Iterations int           `json:"iterations"`
	Converged  bool          `json:"converged"`
	Diverged   []string      `json:"diverged_node_ids,omitempty"`
	ElapsedMS  float64       `json:"computation_time_ms"`
	Elapsed    time.Duration `json:"-"`
}

// Simulate computes the effect of forcing the intervened nodes to their
// forced values, propagating deltas through the weighted edge structure to
// a fixed point (or the iteration cap).
//
// The graph is treated as an immutable snapshot and is never mutated.
// Errors reject the whole call: an unknown intervention target returns
// UnknownNodeError, a forced value that does not fit its node returns
// ValueTypeError. Divergence does not error - affected node ids are
// reported in Report.Diverged and the rest of the graph still gets a
// best-effort result.
func Simulate(g *model.CausalGraph, interventions []model.Intervention, opts Options) (*Report, error) {
	start := time.Now()
	opts = opts.withDefaults()

	forced, err := checkInterventions(g, interventions)
	if err != nil {
		return nil, err
	}

	// Deltas exist only for numeric nodes. Label nodes are pass-throughs:
	// they neither emit nor receive weighted contributions.
	deltas := make(map[string]float64, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		base, numeric := model.AsNumber(n.BaseValue)
		if !numeric {
			continue
		}
		if fv, ok := forced[n.ID]; ok {
			// Pinned for the entire run, never recomputed - even if the
			// node also has parents.
			f, _ := model.AsNumber(fv)
			deltas[n.ID] = f - base
		} else {
			deltas[n.ID] = 0
		}
	}

	// Built once, reused every iteration.
	parents := buildParentIndex(g)

	divergedSet := make(map[string]bool)
	lastChange := make(map[string]float64)
	iterations := 0
	converged := false

	for iter := 0; iter < opts.MaxIterations; iter++ {
		maxChange := 0.0

		for i := range g.Nodes {
			n := &g.Nodes[i]
			if _, ok := forced[n.ID]; ok {
				continue
			}
			old, numeric := deltas[n.ID]
			if !numeric || divergedSet[n.ID] {
				continue
			}
			incoming := parents[n.ID]
			if len(incoming) == 0 {
				continue
			}

			sum := 0.0
			for _, p := range incoming {
				// Missing entry means a label-valued parent: contributes
				// nothing. A diverged parent still emits its frozen delta.
				if pd, ok := deltas[p.sourceID]; ok {
					sum += p.weight * pd
				}
			}

			if !isFinite(sum) {
				// Freeze at the last finite delta and stop recomputing
				// this node, so the non-finite value never spreads and
				// never reaches the result set.
				divergedSet[n.ID] = true
				continue
			}

			change := math.Abs(sum - old)
			lastChange[n.ID] = change
			if change > maxChange {
				maxChange = change
			}
			deltas[n.ID] = sum
		}

		iterations = iter + 1
		if maxChange <= opts.Epsilon {
			converged = true
			break
		}
	}

	// Nodes still moving at the cap failed to converge; flag them alongside
	// the non-finite ones.
	if !converged {
		for id, change := range lastChange {
			if change > opts.Epsilon {
				divergedSet[id] = true
			}
		}
	}

	report := &Report{
		Results:    make([]Result, 0, len(g.Nodes)),
		Iterations: iterations,
		Converged:  converged,
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		report.Results = append(report.Results, Result{
			NodeID:         n.ID,
			OriginalValue:  n.BaseValue,
			SimulatedValue: simulatedValue(n, forced, deltas),
		})
		if divergedSet[n.ID] {
			report.Diverged = append(report.Diverged, n.ID)
		}
	}
	report.Elapsed = time.Since(start)
	report.ElapsedMS = float64(report.Elapsed.Microseconds()) / 1000.0
	return report, nil
}

// simulatedValue resolves a node's final value from its base, the forcing
// map, and the converged deltas.
func simulatedValue(n *model.Node, forced map[string]model.Value, deltas map[string]float64) model.Value {
	// A forced node is exactly its forced value, numeric or label.
	if fv, ok := forced[n.ID]; ok {
		return fv
	}
	if base, numeric := model.AsNumber(n.BaseValue); numeric {
		return model.NewNumber(base + deltas[n.ID])
	}
	// Un-intervened label node: pass-through.
	return n.BaseValue
}

// checkInterventions resolves and type-checks the interventions against the
// graph, returning the forcing map. When the same node is intervened more
// than once the last intervention wins.
func checkInterventions(g *model.CausalGraph, interventions []model.Intervention) (map[string]model.Value, error) {
	forced := make(map[string]model.Value, len(interventions))
	for _, iv := range interventions {
		n := g.NodeByID(iv.NodeID)
		if n == nil {
			return nil, &UnknownNodeError{NodeID: iv.NodeID}
		}

		_, baseNumeric := model.AsNumber(n.BaseValue)
		switch fv := iv.ForcedValue.(type) {
		case model.Number:
			if !baseNumeric {
				return nil, &ValueTypeError{
					NodeID: iv.NodeID,
					Reason: "numeric forced value on a label-valued node",
				}
			}
			if !isFinite(float64(fv)) {
				return nil, &ValueTypeError{
					NodeID: iv.NodeID,
					Reason: "forced value must be finite",
				}
			}
		case model.Label:
			if baseNumeric {
				return nil, &ValueTypeError{
					NodeID: iv.NodeID,
					Reason: "label forced value on a numeric node",
				}
			}
			if n.Type == model.Categorical && len(n.PossibleValues) > 0 && !labelAllowed(string(fv), n.PossibleValues) {
				return nil, &ValueTypeError{
					NodeID: iv.NodeID,
					Reason: fmt.Sprintf("label %q is not among the node's possible values", string(fv)),
				}
			}
		default:
			return nil, &ValueTypeError{NodeID: iv.NodeID, Reason: "forced value is missing"}
		}

		forced[iv.NodeID] = iv.ForcedValue
	}
	return forced, nil
}

func labelAllowed(label string, possible []string) bool {
	for _, p := range possible {
		if model.EqualLabels(label, p) {
			return true
		}
	}
	return false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
