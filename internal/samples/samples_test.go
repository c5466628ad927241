package samples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalsim/causalsim/internal/validate"
)

func TestAll(t *testing.T) {
	graphs := All()
	require.Len(t, graphs, 2)

	ids := make(map[string]bool)
	for _, g := range graphs {
		ids[g.ID] = true
		report := validate.Validate(&g, validate.Options{})
		assert.True(t, report.Valid, "%s: %v", g.ID, report.Messages())
		assert.False(t, report.HasCycle, "%s", g.ID)
	}
	assert.True(t, ids["supply-chain"])
	assert.True(t, ids["product-launch"])
}

func TestProductLaunchShape(t *testing.T) {
	g := ProductLaunch()

	seg := g.NodeByID("market_segment")
	require.NotNil(t, seg)
	assert.NotEmpty(t, seg.PossibleValues)

	// The binary node participates in the numeric structure.
	deal := g.NodeByID("influencer_deal")
	require.NotNil(t, deal)
	assert.Equal(t, "binary", string(deal.Type))
}

func TestLayered_Deterministic(t *testing.T) {
	a := Layered(500, 1200, 42)
	b := Layered(500, 1200, 42)
	assert.Equal(t, a, b)

	c := Layered(500, 1200, 43)
	assert.NotEqual(t, a.Edges, c.Edges)
}

func TestLayered_ShapeAndAcyclicity(t *testing.T) {
	g := Layered(2000, 5000, 42)

	assert.Len(t, g.Nodes, 2000)
	assert.Len(t, g.Edges, 5000)

	report := validate.Validate(&g, validate.Options{CyclesBlock: true})
	assert.True(t, report.Valid, "%v", report.Messages())
	assert.False(t, report.HasCycle)
}

func TestLayered_TinyGraph(t *testing.T) {
	// Fewer nodes than the first layer width: a single layer, no edges.
	g := Layered(10, 50, 1)
	assert.Len(t, g.Nodes, 10)
	assert.Empty(t, g.Edges)
}

func TestLayered_ImpossibleEdgeCountStillReturns(t *testing.T) {
	// Two tiny layers can hold far fewer distinct edges than requested; the
	// attempt budget keeps this from spinning forever.
	g := Layered(60, 10000, 7)
	assert.Len(t, g.Nodes, 60)
	assert.LessOrEqual(t, len(g.Edges), 10000)
}
