package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/causalsim/causalsim/internal/model"
	"github.com/causalsim/causalsim/internal/testutil"
)

func TestBuildParentIndex(t *testing.T) {
	idx := buildParentIndex(testutil.MockGraph())

	// Roots have no entries at all.
	_, ok := idx["1"]
	assert.False(t, ok)

	require.Len(t, idx["2"], 1)
	assert.Equal(t, parentEdge{sourceID: "1", weight: 0.5}, idx["2"][0])
	require.Len(t, idx["3"], 1)
	require.Len(t, idx["4"], 1)
	assert.Equal(t, "2", idx["4"][0].sourceID)
}

func TestBuildParentIndex_MultipleParents(t *testing.T) {
	g := testutil.Graph("fanin",
		[]model.Node{
			testutil.NumNode("a", 0),
			testutil.NumNode("b", 0),
			testutil.NumNode("c", 0),
		},
		[]model.Edge{
			testutil.E("a", "c", 1),
			testutil.E("b", "c", 2),
		},
	)

	idx := buildParentIndex(g)
	require.Len(t, idx["c"], 2)
	// Order follows the edge list.
	assert.Equal(t, "a", idx["c"][0].sourceID)
	assert.Equal(t, "b", idx["c"][1].sourceID)
}

func TestBuildParentIndex_SkipsDanglingEdges(t *testing.T) {
	g := testutil.Graph("dangling",
		[]model.Node{testutil.NumNode("a", 0), testutil.NumNode("b", 0)},
		[]model.Edge{
			testutil.E("a", "b", 1),
			testutil.E("ghost", "b", 5),
			testutil.E("a", "ghost", 5),
		},
	)

	idx := buildParentIndex(g)
	require.Len(t, idx["b"], 1)
	assert.Equal(t, "a", idx["b"][0].sourceID)
	_, ok := idx["ghost"]
	assert.False(t, ok)
}
