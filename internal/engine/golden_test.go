package engine

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/causalsim/causalsim/internal/model"
	"github.com/causalsim/causalsim/internal/testutil"
)

// Weights here are exact binary fractions so the results are bit-stable
// across platforms and the snapshot never drifts.
func TestSimulate_GoldenPricing(t *testing.T) {
	g := testutil.Graph("pricing",
		[]model.Node{
			testutil.NumNode("price", 100),
			testutil.NumNode("demand", 200),
			testutil.NumNode("revenue", 50),
			testutil.CatNode("segment", "mainstream", "niche", "mainstream", "premium"),
		},
		[]model.Edge{
			testutil.E("price", "demand", -0.5),
			testutil.E("demand", "revenue", 0.25),
		},
	)

	report, err := Simulate(g, []model.Intervention{
		{NodeID: "price", ForcedValue: model.NewNumber(108)},
	}, Options{})
	require.NoError(t, err)

	// Wall-clock timing is the one nondeterministic field; zero it so the
	// snapshot stays stable.
	report.Elapsed = 0
	report.ElapsedMS = 0

	data, err := json.MarshalIndent(report, "", "  ")
	require.NoError(t, err)
	data = append(data, '\n')

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "pricing", data)
}
