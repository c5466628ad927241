package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/causalsim/causalsim/internal/engine"
	"github.com/causalsim/causalsim/internal/graphfile"
	"github.com/causalsim/causalsim/internal/model"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	Sets          []string // node=value interventions
	MaxIterations int
	Epsilon       float64
	ChangedOnly   bool
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <graph-file>",
		Short: "Run a what-if simulation over a graph definition",
		Long: `Load a graph definition (.cue or .json), force the nodes given via
--set to new values, and propagate the resulting deltas through the
weighted edge structure to a fixed point.

Values that parse as numbers become numeric interventions; anything
else is treated as a category label.`,
		Example: `  causalsim simulate supply.cue --set supplier_delay=10
  causalsim simulate launch.json --set ad_spend=250 --set market_segment=premium`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Sets, "set", nil, "intervention as node=value (repeatable)")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", engine.DefaultMaxIterations, "relaxation iteration cap")
	cmd.Flags().Float64Var(&opts.Epsilon, "epsilon", engine.DefaultEpsilon, "convergence threshold")
	cmd.Flags().BoolVar(&opts.ChangedOnly, "changed-only", false, "only print nodes whose value changed")

	return cmd
}

func runSimulate(rootOpts *RootOptions, opts *SimulateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	g, err := graphfile.LoadGraph(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load graph", err)
	}

	interventions, err := parseInterventions(opts.Sets)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse interventions", err)
	}
	formatter.VerboseLog("simulating %q with %d intervention(s)", g.ID, len(interventions))

	report, err := engine.Simulate(g, interventions, engine.Options{
		MaxIterations: opts.MaxIterations,
		Epsilon:       opts.Epsilon,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "simulate", err)
	}

	if formatter.Format == "json" {
		return formatter.JSON(report)
	}

	for _, r := range report.Results {
		changed := !valuesEqual(r.OriginalValue, r.SimulatedValue)
		if opts.ChangedOnly && !changed {
			continue
		}
		marker := " "
		if changed {
			marker = "*"
		}
		formatter.Textf("%s %-24s %12s -> %s", marker, r.NodeID,
			formatValue(r.OriginalValue), formatValue(r.SimulatedValue))
	}
	formatter.Textf("")
	formatter.Textf("iterations: %d  converged: %t  elapsed: %s",
		report.Iterations, report.Converged, report.Elapsed)
	for _, id := range report.Diverged {
		formatter.Textf("warning: node %q did not converge", id)
	}
	return nil
}

// parseInterventions turns node=value pairs into interventions. A value
// that parses as a float is a numeric intervention; otherwise a label.
func parseInterventions(sets []string) ([]model.Intervention, error) {
	interventions := make([]model.Intervention, 0, len(sets))
	for _, s := range sets {
		nodeID, raw, ok := strings.Cut(s, "=")
		if !ok || nodeID == "" {
			return nil, fmt.Errorf("malformed intervention %q (want node=value)", s)
		}
		var v model.Value
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			v = model.NewNumber(f)
		} else {
			v = model.NewLabel(raw)
		}
		interventions = append(interventions, model.Intervention{NodeID: nodeID, ForcedValue: v})
	}
	return interventions, nil
}

func formatValue(v model.Value) string {
	switch val := v.(type) {
	case model.Number:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case model.Label:
		return string(val)
	}
	return "?"
}

func valuesEqual(a, b model.Value) bool {
	switch av := a.(type) {
	case model.Number:
		bv, ok := b.(model.Number)
		return ok && av == bv
	case model.Label:
		bv, ok := b.(model.Label)
		return ok && av == bv
	}
	return false
}
