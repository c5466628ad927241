package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalsim/causalsim/internal/model"
)

func runSimulateCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewSimulateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSimulateText(t *testing.T) {
	out, err := runSimulateCmd(t, "text",
		filepath.Join("testdata", "chain.json"), "--set", "a=3")
	require.NoError(t, err)

	// Both nodes changed: a forced to 3, b moved by 0.5·2.
	assert.Contains(t, out, "* a")
	assert.Contains(t, out, "* b")
	assert.Contains(t, out, "converged: true")
}

func TestSimulateChangedOnly(t *testing.T) {
	g := filepath.Join("testdata", "chain.json")

	out, err := runSimulateCmd(t, "text", g, "--set", "b=99", "--changed-only")
	require.NoError(t, err)
	// Forcing the sink changes nothing upstream.
	assert.Contains(t, out, "* b")
	assert.NotContains(t, out, "* a")
}

func TestSimulateJSON(t *testing.T) {
	out, err := runSimulateCmd(t, "json",
		filepath.Join("testdata", "chain.json"), "--set", "a=3")
	require.NoError(t, err)

	var report struct {
		Results []struct {
			NodeID         string          `json:"node_id"`
			SimulatedValue json.RawMessage `json:"simulated_value"`
		} `json:"results"`
		Converged         bool     `json:"converged"`
		ComputationTimeMS *float64 `json:"computation_time_ms"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Converged)
	require.Len(t, report.Results, 2)
	assert.JSONEq(t, "3", string(report.Results[1].SimulatedValue))
	// JSON output carries the timing the text format prints.
	require.NotNil(t, report.ComputationTimeMS)
	assert.GreaterOrEqual(t, *report.ComputationTimeMS, 0.0)
}

func TestSimulateNoInterventions(t *testing.T) {
	out, err := runSimulateCmd(t, "text", filepath.Join("testdata", "chain.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "converged: true")
	assert.NotContains(t, out, "*")
}

func TestSimulateUnknownNode(t *testing.T) {
	_, err := runSimulateCmd(t, "text",
		filepath.Join("testdata", "chain.json"), "--set", "ghost=1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSimulateMalformedSet(t *testing.T) {
	_, err := runSimulateCmd(t, "text",
		filepath.Join("testdata", "chain.json"), "--set", "nonsense")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "node=value")
}

func TestParseInterventions(t *testing.T) {
	interventions, err := parseInterventions([]string{"a=1.5", "segment=premium", "b=-2"})
	require.NoError(t, err)
	require.Len(t, interventions, 3)

	assert.Equal(t, model.NewNumber(1.5), interventions[0].ForcedValue)
	assert.Equal(t, model.NewLabel("premium"), interventions[1].ForcedValue)
	assert.Equal(t, model.NewNumber(-2), interventions[2].ForcedValue)

	_, err = parseInterventions([]string{"=5"})
	require.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1.5", formatValue(model.NewNumber(1.5)))
	assert.Equal(t, "100", formatValue(model.NewNumber(100)))
	assert.Equal(t, "premium", formatValue(model.NewLabel("premium")))
}
